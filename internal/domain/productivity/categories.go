package productivity

type HeightCategory string

const (
	HeightGround   HeightCategory = "ground"
	HeightMedium   HeightCategory = "medium"
	HeightHigh     HeightCategory = "high"
	HeightVeryHigh HeightCategory = "very_high"
)

var heightCategories = []HeightCategory{HeightGround, HeightMedium, HeightHigh, HeightVeryHigh}

func HeightCategories() []HeightCategory {
	return append([]HeightCategory(nil), heightCategories...)
}

func ParseHeightCategory(raw string) (HeightCategory, error) {
	for _, c := range heightCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrInvalidHeightCategory
}

type ScenarioCategory string

const (
	ScenarioStreetStore ScenarioCategory = "street_store"
	ScenarioMall        ScenarioCategory = "mall"
	ScenarioEvent       ScenarioCategory = "event"
	ScenarioFacade      ScenarioCategory = "facade"
	ScenarioOutdoor     ScenarioCategory = "outdoor"
	ScenarioVehicle     ScenarioCategory = "vehicle"
)

var scenarioCategories = []ScenarioCategory{
	ScenarioStreetStore,
	ScenarioMall,
	ScenarioEvent,
	ScenarioFacade,
	ScenarioOutdoor,
	ScenarioVehicle,
}

func ScenarioCategories() []ScenarioCategory {
	return append([]ScenarioCategory(nil), scenarioCategories...)
}

func ParseScenarioCategory(raw string) (ScenarioCategory, error) {
	for _, c := range scenarioCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrInvalidScenario
}

const (
	MinComplexity = 1
	MaxComplexity = 5
)

func ValidateComplexity(level int) error {
	if level < MinComplexity || level > MaxComplexity {
		return ErrInvalidComplexity
	}
	return nil
}

// Defaults applied to installed-product records whose session carried no context tags.
const (
	DefaultComplexity = 1
	DefaultHeight     = HeightGround
	DefaultScenario   = ScenarioStreetStore
)

type PauseReason string

const (
	PauseAwaitingClient   PauseReason = "awaiting_client"
	PauseRain             PauseReason = "rain"
	PauseMaterialShortage PauseReason = "material_shortage"
	PauseLunchBreak       PauseReason = "lunch_break"
	PauseAccessProblem    PauseReason = "access_problem"
	PauseEquipmentProblem PauseReason = "equipment_problem"
	PauseAwaitingApproval PauseReason = "awaiting_approval"
	PauseOther            PauseReason = "other"
)

var pauseReasons = []PauseReason{
	PauseAwaitingClient,
	PauseRain,
	PauseMaterialShortage,
	PauseLunchBreak,
	PauseAccessProblem,
	PauseEquipmentProblem,
	PauseAwaitingApproval,
	PauseOther,
}

func ParsePauseReason(raw string) (PauseReason, error) {
	for _, r := range pauseReasons {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", ErrInvalidPauseReason
}
