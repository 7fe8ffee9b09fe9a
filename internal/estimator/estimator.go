// Package estimator derives a bill of materials from a job category and its
// details. Everything here is pure: no I/O, no shared mutable state.
package estimator

import (
	"sort"

	"job-commerce-api/internal/common"
)

type Line struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Required  bool    `json:"required"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Cost      float64 `json:"cost"`
	Rationale string  `json:"rationale"`
}

// Lines is one evaluation of a category's formulas.
type Lines []Line

// Estimate evaluates every formula of category against details. Lines that resolve
// to a non-positive quantity are left out. An unknown category yields an empty result.
func Estimate(category string, details map[string]any) Lines {
	attrs := Attributes(details)
	lines := make(Lines, 0, len(formulas[category]))
	for _, f := range formulas[category] {
		qty := min(f.Quantity(attrs), maxQuantity)
		if qty <= 0 {
			continue
		}
		lines = append(lines, Line{
			Name:      f.Name,
			Unit:      f.Unit,
			Required:  f.Required,
			Quantity:  qty,
			UnitPrice: f.UnitPrice,
			Cost:      common.RoundMoney(float64(qty) * f.UnitPrice),
			Rationale: f.Rationale,
		})
	}

	return lines
}

func EstimateTotalCost(category string, details map[string]any) float64 {
	return Estimate(category, details).TotalCost()
}

func (l Lines) TotalCost() float64 {
	var total float64
	for _, line := range l {
		total += line.Cost
	}

	return common.RoundMoney(total)
}

func (l Lines) Required() Lines {
	return l.filter(true)
}

func (l Lines) Optional() Lines {
	return l.filter(false)
}

func (l Lines) filter(required bool) Lines {
	out := make(Lines, 0, len(l))
	for _, line := range l {
		if line.Required == required {
			out = append(out, line)
		}
	}

	return out
}

func Known(category string) bool {
	_, ok := formulas[category]
	return ok
}

func Categories() []string {
	out := make([]string, 0, len(formulas))
	for c := range formulas {
		out = append(out, c)
	}
	sort.Strings(out)

	return out
}
