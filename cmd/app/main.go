package main

import "job-commerce-api/app"

func main() {
	app.Run()
}
