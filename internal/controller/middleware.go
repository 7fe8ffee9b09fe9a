package controller

import (
	"time"

	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

// requestLogger logs one line per request. Handlers have already written the
// response when they return an error, so the error is only logged here.
func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			entry := log.WithFields(logrus.Fields{
				"method":  req.Method,
				"path":    c.Path(),
				"uri":     req.RequestURI,
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			})

			switch {
			case err != nil && c.Response().Status >= 500:
				entry.WithError(err).Error("request failed")
			case err != nil:
				entry.WithError(err).Info("request rejected")
			default:
				entry.Info("request handled")
			}

			return err
		}
	}
}
