package engine

// Cadence describes how often a recurring payment or contribution nominally
// occurs.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
	CadenceOneTime   Cadence = "one_time"
	CadenceCustom    Cadence = "custom"
)

// CustomUnit is the interval unit of a custom cadence.
type CustomUnit string

const (
	UnitDays   CustomUnit = "days"
	UnitWeeks  CustomUnit = "weeks"
	UnitMonths CustomUnit = "months"
	UnitYears  CustomUnit = "years"
)

// daysPerYear is the average Gregorian year length, used to convert day and
// week based custom intervals into monthly equivalents.
const daysPerYear = 365.2425

// ToMonthlyAmount converts an amount paid on the given cadence into its
// monthly-equivalent amount. One-time amounts have no monthly equivalent and
// convert to zero. A custom cadence with a non-positive interval or an
// unrecognized unit also converts to zero. An unrecognized cadence value
// passes the amount through unchanged rather than failing.
//
// No currency rounding is applied here; callers round downstream.
func ToMonthlyAmount(amount float64, cadence Cadence, customInterval int, customUnit CustomUnit) float64 {
	amount = finiteOrZero(amount)

	switch cadence {
	case CadenceWeekly:
		return amount * 52 / 12
	case CadenceBiweekly:
		return amount * 26 / 12
	case CadenceMonthly:
		return amount
	case CadenceQuarterly:
		return amount / 3
	case CadenceYearly:
		return amount / 12
	case CadenceOneTime:
		return 0
	case CadenceCustom:
		if customInterval <= 0 {
			return 0
		}
		interval := float64(customInterval)
		switch customUnit {
		case UnitDays:
			return amount * daysPerYear / (interval * 12)
		case UnitWeeks:
			return amount * daysPerYear / (interval * 7 * 12)
		case UnitMonths:
			return amount / interval
		case UnitYears:
			return amount / (interval * 12)
		default:
			return 0
		}
	default:
		// Unknown cadences are treated as already-monthly.
		return amount
	}
}
