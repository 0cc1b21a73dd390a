package engine

import "github.com/Veraticus/loadboard/internal/model"

// Allocation ratios applied to a load's total cubage.
const (
	SurchargeFactor = 1.10
	BaseDivisor     = 2.5
	KitDivisor      = 1.9
	MixDivisor      = 1.3
)

// Allocate derives the KIT and MIX planning figures from total cubage.
// Zero cubage yields zero figures; negative cubage is not rejected.
func Allocate(cubage float64) model.Allocation {
	adjusted := cubage * SurchargeFactor
	base := adjusted / BaseDivisor
	return model.Allocation{
		Adjusted: adjusted,
		Base:     base,
		Kit:      base / KitDivisor,
		Mix:      base / MixDivisor,
	}
}
