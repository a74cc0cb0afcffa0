package quantity

// PriceUnit distinguishes hourly infrastructure cost from per-request
// pricing (e.g. S3 request pricing).
type PriceUnit string

const (
	PerHour    PriceUnit = "per-hour"
	PerRequest PriceUnit = "per-request"
)

// PriceCategory labels the contribution for breakdown/reporting purposes.
type PriceCategory string

const (
	CategoryCompute   PriceCategory = "compute"
	CategoryStorage   PriceCategory = "storage"
	CategoryEBS       PriceCategory = "ebs"
	CategoryS3        PriceCategory = "s3"
	CategoryNetwork   PriceCategory = "network"
	CategoryLogService PriceCategory = "log-service"
	CategoryPageService PriceCategory = "page-service"
)

// Price is a unit-tagged monetary value. Addition is only defined between
// matching units.
type Price struct {
	Value    float64
	Unit     PriceUnit
	Category PriceCategory
}

// Hourly constructs a per-hour Price.
func Hourly(value float64, category PriceCategory) Price {
	return Price{Value: value, Unit: PerHour, Category: category}
}

// PerRequestPrice constructs a per-request Price.
func PerRequestPrice(value float64, category PriceCategory) Price {
	return Price{Value: value, Unit: PerRequest, Category: category}
}

// Add returns p + other. Panics if the unit tags differ.
func (p Price) Add(other Price) Price {
	if p.Unit != other.Unit {
		panic("quantity: Price.Add on mismatched unit tags")
	}
	return Price{Value: p.Value + other.Value, Unit: p.Unit, Category: p.Category}
}

// TimesRate multiplies a per-request Price by a Rate to yield an hourly
// Price: 3600 * rate * price-per-request.
func (p Price) TimesRate(r Rate) Price {
	if p.Unit != PerRequest {
		panic("quantity: Price.TimesRate requires a per-request price")
	}
	if r.IsUnlimited() {
		panic("quantity: Price.TimesRate with an unlimited rate")
	}
	return Hourly(3600*r.PerSecond()*p.Value, p.Category)
}

// Sum adds a list of same-unit prices together, starting from zero in the
// unit of the first element (or PerHour if the list is empty).
func Sum(prices ...Price) Price {
	if len(prices) == 0 {
		return Hourly(0, CategoryCompute)
	}
	total := Price{Unit: prices[0].Unit, Category: prices[0].Category}
	for _, p := range prices {
		total = total.Add(Price{Value: p.Value, Unit: p.Unit, Category: total.Category})
	}
	return total
}
