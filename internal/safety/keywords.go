package safety

// Level is the ordinal safety classification for a message.
type Level string

const (
	LevelSafe    Level = "safe"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
	LevelCrisis  Level = "crisis"
)

// keywordCategory is an ordered list of terms under a named bucket.
type keywordCategory struct {
	Name     string
	Keywords []string
}

// crisisCategories are scanned in declaration order; the first category with
// a hit wins, so the order is a tie-break, not a severity ranking.
var crisisCategories = []keywordCategory{
	{
		Name: "suicide",
		Keywords: []string{
			"انتحار", "أقتل نفسي", "أريد أن أموت", "نهاية حياتي",
			"suicide", "kill myself", "want to die", "end my life",
			"لا أريد العيش", "better off dead", "لا فائدة من الحياة",
		},
	},
	{
		Name: "self_harm",
		Keywords: []string{
			"أجرح نفسي", "أؤذي نفسي", "قطع", "حرق", "self-harm",
			"cut myself", "hurt myself", "bleeding intentionally",
		},
	},
	{
		Name: "abuse",
		Keywords: []string{
			"اعتداء", "عنف منزلي", "ضرب", "تحرش", "إساءة",
			"abuse", "domestic violence", "beating", "harassment",
		},
	},
	{
		Name: "emergency_health",
		Keywords: []string{
			"نوبة قلبية", "سكتة دماغية", "توقف تنفس", "جرح نازف",
			"heart attack", "stroke", "can't breathe", "bleeding severely",
		},
	},
}

// warningCategories contribute to a cumulative score without triggering the
// crisis short-circuit.
var warningCategories = []keywordCategory{
	{
		Name: "depression",
		Keywords: []string{
			"مكتئب", "حزين جدا", "لا معنى للحياة", "يأس",
			"depressed", "very sad", "no meaning", "hopeless",
		},
	},
	{
		Name: "anxiety",
		Keywords: []string{
			"قلق شديد", "نوبة هلع", "خوف", "رهاب",
			"severe anxiety", "panic attack", "terrified", "phobia",
		},
	},
	{
		Name: "addiction",
		Keywords: []string{
			"إدمان", "مخدرات", "كحول", "لا أستطيع التوقف",
			"addiction", "drugs", "alcohol", "can't stop",
		},
	},
}

// negationTerms feed the negation signal only; they never change the level.
var negationTerms = []string{"لا", "ليس", "لن", "never", "not", "no"}

// negativeWords feed the bag-of-words sentiment score.
var negativeWords = []string{
	"حزين", "تعيس", "يأس", "خوف", "قلق", "ألم", "معاناة",
	"sad", "unhappy", "hopeless", "fear", "anxiety", "pain", "suffering",
}
