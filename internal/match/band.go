package match

// Variant is the display tier attached to a band.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantNeutral Variant = "neutral"
	VariantError   Variant = "error"
)

// Band is the qualitative label for a score range.
type Band struct {
	Label   string
	Variant Variant
}

var (
	BandExcellent = Band{Label: "Excellent", Variant: VariantSuccess}
	BandGood      = Band{Label: "Good", Variant: VariantWarning}
	BandFair      = Band{Label: "Fair", Variant: VariantNeutral}
	BandLow       = Band{Label: "Low", Variant: VariantError}
)

func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandLow
	}
}
