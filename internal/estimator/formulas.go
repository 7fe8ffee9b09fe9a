package estimator

import "math"

// Formula is one material requirement of a category. Quantity must be total over
// any Attributes value.
type Formula struct {
	Name      string
	Unit      string
	Required  bool
	UnitPrice float64
	Rationale string
	Quantity  func(a Attributes) int
}

const (
	gallonCoverageSqft = 350
	primerCoverageSqft = 300
	defaultCoats       = 2
)

var formulas = map[string][]Formula{
	"painting": {
		{
			Name: "Interior Paint", Unit: "gallon", Required: true, UnitPrice: 45,
			Rationale: "one gallon covers 350 sq ft per coat",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("total_sqft") * float64(coats(a)) / gallonCoverageSqft)
			},
		},
		{
			Name: "Primer", Unit: "gallon", Required: true, UnitPrice: 32,
			Rationale: "full coat on poor walls, half coat on fair walls, none otherwise",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("total_sqft") * primerFactor(a) / primerCoverageSqft)
			},
		},
		{
			Name: "Ceiling Paint", Unit: "gallon", Required: false, UnitPrice: 40,
			Rationale: "one coat over the ceiling area when ceilings are included",
			Quantity: func(a Attributes) int {
				if !a.Bool("include_ceiling") {
					return 0
				}
				return ceil(a.Number("ceiling_sqft") / gallonCoverageSqft)
			},
		},
		{
			Name: "Trim Paint", Unit: "quart", Required: false, UnitPrice: 22,
			Rationale: "one quart of semi-gloss per room of trim",
			Quantity: func(a Attributes) int {
				if !a.Bool("include_trim") {
					return 0
				}
				return a.Int("rooms")
			},
		},
		{
			Name: "Painter's Tape", Unit: "roll", Required: true, UnitPrice: 7,
			Rationale: "one and a half rolls per room",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("rooms") * 1.5)
			},
		},
		{
			Name: "Roller Covers", Unit: "each", Required: true, UnitPrice: 8,
			Rationale: "two per color, at least one per two rooms",
			Quantity: func(a Attributes) int {
				return ceil(max(math.Trunc(a.Number("num_colors"))*2, a.Number("rooms")/2))
			},
		},
		{
			Name: "Drop Cloths", Unit: "each", Required: false, UnitPrice: 12,
			Rationale: "one per room",
			Quantity: func(a Attributes) int {
				return a.Int("rooms")
			},
		},
		{
			Name: "Patching Compound", Unit: "tub", Required: false, UnitPrice: 11,
			Rationale: "one tub per room on poor walls, per two rooms on fair walls",
			Quantity: func(a Attributes) int {
				switch {
				case a.is("wall_condition", "Poor"):
					return a.Int("rooms")
				case a.is("wall_condition", "Fair"):
					return ceil(a.Number("rooms") / 2)
				}
				return 0
			},
		},
	},
	"flooring": {
		{
			Name: "Flooring", Unit: "box", Required: true, UnitPrice: 65,
			Rationale: "20 sq ft per box plus 10% cutting waste",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("area_sqft") * 1.10 / 20)
			},
		},
		{
			Name: "Underlayment", Unit: "roll", Required: true, UnitPrice: 35,
			Rationale: "100 sq ft per roll under floating hardwood and laminate",
			Quantity: func(a Attributes) int {
				if !a.is("floor_type", "laminate") && !a.is("floor_type", "hardwood") {
					return 0
				}
				return ceil(a.Number("area_sqft") / 100)
			},
		},
		{
			Name: "Flooring Adhesive", Unit: "gallon", Required: true, UnitPrice: 40,
			Rationale: "glue-down vinyl needs one gallon per 200 sq ft",
			Quantity: func(a Attributes) int {
				if !a.is("floor_type", "vinyl") {
					return 0
				}
				return ceil(a.Number("area_sqft") / 200)
			},
		},
		{
			Name: "Quarter Round", Unit: "8 ft piece", Required: false, UnitPrice: 9,
			Rationale: "perimeter in 8 ft lengths",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("perimeter_ft") / 8)
			},
		},
		{
			Name: "Transition Strips", Unit: "each", Required: false, UnitPrice: 15,
			Rationale: "one per doorway between rooms",
			Quantity: func(a Attributes) int {
				return a.Int("rooms") - 1
			},
		},
		{
			Name: "Contractor Bags", Unit: "box", Required: false, UnitPrice: 18,
			Rationale: "one box per 250 sq ft of flooring removed",
			Quantity: func(a Attributes) int {
				if !a.Bool("remove_existing") {
					return 0
				}
				return ceil(a.Number("area_sqft") / 250)
			},
		},
	},
	"drywall": {
		{
			Name: "Drywall Sheets", Unit: "4x8 sheet", Required: true, UnitPrice: 16,
			Rationale: "32 sq ft per sheet plus 10% waste",
			Quantity:  drywallSheets,
		},
		{
			Name: "Joint Compound", Unit: "bucket", Required: true, UnitPrice: 19,
			Rationale: "one bucket per 400 sq ft hung, one per 10 patches",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("wall_sqft")/400) + ceil(a.Number("num_patches")/10)
			},
		},
		{
			Name: "Drywall Tape", Unit: "roll", Required: true, UnitPrice: 6,
			Rationale: "one 250 ft roll per 500 sq ft",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("wall_sqft") / 500)
			},
		},
		{
			Name: "Drywall Screws", Unit: "box", Required: true, UnitPrice: 12,
			Rationale: "one box per 8 sheets",
			Quantity: func(a Attributes) int {
				return ceil(float64(drywallSheets(a)) / 8)
			},
		},
		{
			Name: "Corner Bead", Unit: "8 ft piece", Required: false, UnitPrice: 5,
			Rationale: "one per outside corner",
			Quantity: func(a Attributes) int {
				return a.Int("outside_corners")
			},
		},
		{
			Name: "Patch Kit", Unit: "each", Required: false, UnitPrice: 9,
			Rationale: "one per hole to repair",
			Quantity: func(a Attributes) int {
				return a.Int("num_patches")
			},
		},
	},
	"tiling": {
		{
			Name: "Tile", Unit: "box", Required: true, UnitPrice: 55,
			Rationale: "10 sq ft per box plus 15% waste",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("tile_sqft") * 1.15 / 10)
			},
		},
		{
			Name: "Thinset Mortar", Unit: "50 lb bag", Required: true, UnitPrice: 28,
			Rationale: "50 sq ft per bag, 40 sq ft for large-format tile",
			Quantity: func(a Attributes) int {
				coverage := 50.0
				if a.is("tile_size", "large") {
					coverage = 40
				}
				return ceil(a.Number("tile_sqft") / coverage)
			},
		},
		{
			Name: "Grout", Unit: "25 lb bag", Required: true, UnitPrice: 24,
			Rationale: "100 sq ft per bag",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("tile_sqft") / 100)
			},
		},
		{
			Name: "Tile Spacers", Unit: "bag", Required: true, UnitPrice: 4,
			Rationale: "one bag per 50 sq ft",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("tile_sqft") / 50)
			},
		},
		{
			Name: "Cement Backer Board", Unit: "3x5 sheet", Required: false, UnitPrice: 14,
			Rationale: "15 sq ft per sheet in wet areas",
			Quantity: func(a Attributes) int {
				if !a.Bool("wet_area") {
					return 0
				}
				return ceil(a.Number("tile_sqft") / 15)
			},
		},
		{
			Name: "Grout Sealer", Unit: "quart", Required: false, UnitPrice: 17,
			Rationale: "one quart per 150 sq ft",
			Quantity: func(a Attributes) int {
				if !a.Bool("seal_grout") {
					return 0
				}
				return ceil(a.Number("tile_sqft") / 150)
			},
		},
	},
	"fencing": {
		{
			Name: "Fence Posts", Unit: "each", Required: true, UnitPrice: 18,
			Rationale: "one every 8 ft plus an end post and one per gate",
			Quantity:  fencePosts,
		},
		{
			Name: "Fence Rails", Unit: "8 ft rail", Required: true, UnitPrice: 11,
			Rationale: "two rails per section, three above 5 ft tall",
			Quantity: func(a Attributes) int {
				rails := 2
				if a.Number("height_ft") > 5 {
					rails = 3
				}
				return fenceSections(a) * rails
			},
		},
		{
			Name: "Fence Pickets", Unit: "each", Required: true, UnitPrice: 3,
			Rationale: "5.5 in wide pickets edge to edge",
			Quantity: func(a Attributes) int {
				return ceil(a.Number("linear_ft") * 12 / 5.5)
			},
		},
		{
			Name: "Concrete Mix", Unit: "50 lb bag", Required: true, UnitPrice: 7,
			Rationale: "two bags per post",
			Quantity: func(a Attributes) int {
				return fencePosts(a) * 2
			},
		},
		{
			Name: "Gate Hardware Kit", Unit: "kit", Required: false, UnitPrice: 35,
			Rationale: "hinges and latch per gate",
			Quantity: func(a Attributes) int {
				if a.Number("linear_ft") <= 0 {
					return 0
				}
				return a.Int("gates")
			},
		},
		{
			Name: "Wood Stain", Unit: "gallon", Required: false, UnitPrice: 38,
			Rationale: "both faces at 250 sq ft per gallon",
			Quantity: func(a Attributes) int {
				if !a.Bool("stain") {
					return 0
				}
				return ceil(a.Number("linear_ft") * a.Number("height_ft") * 2 / 250)
			},
		},
	},
}

func coats(a Attributes) int {
	if n := a.Int("num_coats"); n > 0 {
		return n
	}

	return defaultCoats
}

func primerFactor(a Attributes) float64 {
	switch {
	case a.is("wall_condition", "Poor"):
		return 1
	case a.is("wall_condition", "Fair"):
		return 0.5
	}

	return 0
}

func drywallSheets(a Attributes) int {
	return ceil(a.Number("wall_sqft") * 1.10 / 32)
}

func fenceSections(a Attributes) int {
	return ceil(a.Number("linear_ft") / 8)
}

func fencePosts(a Attributes) int {
	sections := fenceSections(a)
	if sections == 0 {
		return 0
	}

	return sections + 1 + max(a.Int("gates"), 0)
}

