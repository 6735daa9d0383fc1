package recommend

import "fatigue-go/internal/models"

// Template is the fixed description/duration/impact for one
// (type, fatigue level) combination.
type Template struct {
	Description     string
	DurationMinutes int
	ExpectedImpact  float64
}

// defaultTemplate covers any unmapped (type, level) combination.
var defaultTemplate = Template{
	Description:     "Take a break and do something to refresh your mind.",
	DurationMinutes: 15,
	ExpectedImpact:  0.2,
}

var templates = map[models.RecommendationType]map[models.FatigueLevel]Template{
	models.RecBreak: {
		models.LevelLow: {
			Description:     "Take a short 5-minute break to refresh your mind.",
			DurationMinutes: 5,
			ExpectedImpact:  0.1,
		},
		models.LevelModerate: {
			Description:     "Take a 10-minute break and step away from your screen.",
			DurationMinutes: 10,
			ExpectedImpact:  0.2,
		},
		models.LevelHigh: {
			Description:     "Take a 15-minute break, preferably outside or in a different environment.",
			DurationMinutes: 15,
			ExpectedImpact:  0.3,
		},
		models.LevelSevere: {
			Description:     "Take a 30-minute break. Consider a power nap if possible.",
			DurationMinutes: 30,
			ExpectedImpact:  0.4,
		},
	},
	models.RecExercise: {
		models.LevelLow: {
			Description:     "Do some light stretching for 5 minutes to improve circulation.",
			DurationMinutes: 5,
			ExpectedImpact:  0.15,
		},
		models.LevelModerate: {
			Description:     "Take a 10-minute walk or do some desk exercises.",
			DurationMinutes: 10,
			ExpectedImpact:  0.25,
		},
		models.LevelHigh: {
			Description:     "Do a 15-minute moderate exercise session (brisk walk, yoga, etc.).",
			DurationMinutes: 15,
			ExpectedImpact:  0.35,
		},
		models.LevelSevere: {
			Description:     "Take a 20-minute break for physical activity - a walk outside is ideal.",
			DurationMinutes: 20,
			ExpectedImpact:  0.45,
		},
	},
	models.RecMeditation: {
		models.LevelLow: {
			Description:     "Take 3 minutes for deep breathing exercises.",
			DurationMinutes: 3,
			ExpectedImpact:  0.1,
		},
		models.LevelModerate: {
			Description:     "Do a 5-minute guided meditation or mindfulness exercise.",
			DurationMinutes: 5,
			ExpectedImpact:  0.2,
		},
		models.LevelHigh: {
			Description:     "Take 10 minutes for a guided meditation session.",
			DurationMinutes: 10,
			ExpectedImpact:  0.3,
		},
		models.LevelSevere: {
			Description:     "Do a 15-minute meditation session focusing on stress reduction.",
			DurationMinutes: 15,
			ExpectedImpact:  0.4,
		},
	},
	models.RecTaskSwitch: {
		models.LevelLow: {
			Description:     "Switch to a different, less demanding task for a while.",
			DurationMinutes: 30,
			ExpectedImpact:  0.1,
		},
		models.LevelModerate: {
			Description:     "Change your current task to something that requires different mental resources.",
			DurationMinutes: 45,
			ExpectedImpact:  0.2,
		},
		models.LevelHigh: {
			Description:     "Switch to a completely different type of work that engages different parts of your brain.",
			DurationMinutes: 60,
			ExpectedImpact:  0.3,
		},
		models.LevelSevere: {
			Description:     "Take on a creative or enjoyable task that feels less like work for the next hour.",
			DurationMinutes: 60,
			ExpectedImpact:  0.4,
		},
	},
	models.RecEnvironment: {
		models.LevelLow: {
			Description:     "Adjust your workspace - clean up clutter or adjust lighting.",
			DurationMinutes: 5,
			ExpectedImpact:  0.1,
		},
		models.LevelModerate: {
			Description:     "Change your environment - move to a different room or space.",
			DurationMinutes: 10,
			ExpectedImpact:  0.2,
		},
		models.LevelHigh: {
			Description:     "Work from a completely different location for a while, like a cafe or common area.",
			DurationMinutes: 15,
			ExpectedImpact:  0.3,
		},
		models.LevelSevere: {
			Description:     "Take your work outside or to a stimulating environment for a change of scenery.",
			DurationMinutes: 30,
			ExpectedImpact:  0.4,
		},
	},
	models.RecNutrition: {
		models.LevelLow: {
			Description:     "Drink a glass of water and have a small healthy snack.",
			DurationMinutes: 5,
			ExpectedImpact:  0.1,
		},
		models.LevelModerate: {
			Description:     "Take a proper break to hydrate and have a nutritious snack like nuts or fruit.",
			DurationMinutes: 10,
			ExpectedImpact:  0.2,
		},
		models.LevelHigh: {
			Description:     "Take time for a proper meal with protein and complex carbohydrates.",
			DurationMinutes: 20,
			ExpectedImpact:  0.3,
		},
		models.LevelSevere: {
			Description:     "Take a full break for a balanced meal and make sure you're well hydrated.",
			DurationMinutes: 30,
			ExpectedImpact:  0.4,
		},
	},
}

// templateFor looks up the template for a type and level, falling back to
// the default for unmapped combinations (e.g. very_low).
func templateFor(recType models.RecommendationType, level models.FatigueLevel) Template {
	if byLevel, ok := templates[recType]; ok {
		if t, ok := byLevel[level]; ok {
			return t
		}
	}
	return defaultTemplate
}
