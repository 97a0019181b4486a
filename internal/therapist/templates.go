package therapist

// Style is the behavioral mode governing which template pools are eligible.
type Style string

const (
	StyleSupportive      Style = "supportive"
	StyleCBT             Style = "cbt"
	StyleSolutionFocused Style = "solution_focused"
	StyleMindfulness     Style = "mindfulness"
)

// Component names used by the composer, in the order rules evaluate them.
const (
	ComponentEmpathy     = "empathy"
	ComponentValidation  = "validation"
	ComponentExploration = "exploration"
	ComponentReframing   = "reframing"
	ComponentCoping      = "coping"
	ComponentHope        = "hope"
)

// allComponents is the closed set the engine may select from. Every entry
// must have a non-empty template pool.
var allComponents = []string{
	ComponentEmpathy,
	ComponentValidation,
	ComponentExploration,
	ComponentReframing,
	ComponentCoping,
	ComponentHope,
}

// defaultTemplates are the per-component response pools. Every pool must be
// non-empty; the engine refuses to construct otherwise.
var defaultTemplates = map[string][]string{
	ComponentEmpathy: {
		"أتفهم ما تمر به. يمكن أن تكون هذه المشاعر صعبة حقاً.",
		"يبدو أن هذا الوضع يؤثر عليك بشدة. شكراً لمشاركتي إياه.",
		"ما تشعر به الآن أمر مفهوم في ظل هذه الظروف.",
		"لا بد أن هذا يؤلمك. أنا هنا لأسمعك.",
		"شجاعة كبيرة أن تتحدث عن هذا. أقدّر ثقتك بي.",
	},
	ComponentValidation: {
		"مشاعرك حقيقية ومهمة. كل شخص يستحق أن يُسمع.",
		"لا يوجد مشاعر 'صحيحة' أو 'خاطئة'. ما تشعر به الآن هو رد فعلك الطبيعي.",
		"في مثل هذه المواقف، من الطبيعي أن تشعر بهذه الطريقة.",
		"رد فعلك على هذا الموقف يظهر مدى أهميته بالنسبة لك.",
		"الاعتراف بالمشاعر هو الخطوة الأولى نحو التعامل معها.",
	},
	ComponentExploration: {
		"هل يمكنك أن تخبرني المزيد عن ذلك؟",
		"كيف يؤثر هذا على حياتك اليومية؟",
		"متى بدأت تشعر بهذه الطريقة؟",
		"هل هناك جوانب أخرى من هذا الموقف تود مناقشتها؟",
		"كيف تتعامل عادة مع مثل هذه المشاعر؟",
	},
	ComponentReframing: {
		"هل فكرت في النظر إلى هذا الموقف من زاوية مختلفة؟",
		"ماذا لو كان هذا التحدي فرصة للنمو؟",
		"أحياناً نرى الأمور أسوأ مما هي عليه. هل هناك جوانب إيجابية؟",
		"كيف ستنظر إلى هذا الموقف بعد سنة من الآن؟",
		"ما الذي يمكنك التعلمه من هذه التجربة؟",
	},
	ComponentCoping: {
		"هل جربت تمارين التنفس العميق عندما تشعر بالتوتر؟",
		"الكتابة عن مشاعرك قد تساعد في تنظيمها.",
		"النشاط البدني الخفيف يمكن أن يحسن المزاج.",
		"التحدث مع صديق مقرب قد يخفف العبء.",
		"تقسيم المشكلة إلى أجزاء صغيرة قد يجعلها أكثر قابلية للإدارة.",
	},
	ComponentHope: {
		"الأوقات الصعبة مؤقتة، حتى لو لم تبدو كذلك الآن.",
		"لديك نقاط قوة قد تساعدك في تخطي هذا التحدي.",
		"طلب المساعدة هو علامة قوة، ليس ضعفاً.",
		"كل تجربة، حتى الصعبة منها، تساهم في نموك الشخصي.",
		"هناك دائمًا إمكانية للتغيير والنمو.",
	},
}

// styleTechniques describes each therapy style for the introspection surface.
var styleTechniques = map[Style][]string{
	StyleSupportive: {
		"التعاطف والاستماع النشط",
		"التحقق من المشاعر",
		"تقدير الجهد والشجاعة",
		"التطبيع والتطمين",
		"التشجيع والتقوية",
	},
	StyleCBT: {
		"تحديد الأفكار الآلية",
		"اختبار الأدلة والواقع",
		"إعادة الهيكلة المعرفية",
		"التسجيل الذاتي للأفكار",
		"تجارب السلوك",
	},
	StyleSolutionFocused: {
		"أسئلة المعجزة",
		"تحديد الاستثناءات",
		"قياس التقدم",
		"البحث عن الموارد",
		"بناء السيناريوهات المفضلة",
	},
	StyleMindfulness: {
		"الوعي باللحظة الحالية",
		"الملاحظة بدون حكم",
		"تمارين التنفس الواعي",
		"مسح الجسم",
		"التأمل في المشاعر",
	},
}

// negativeAffectTerms trigger the validation component.
var negativeAffectTerms = []string{"حزين", "قلق", "خوف", "sad", "anxious", "afraid"}

// Fragment connectors for multi-part responses.
var (
	pairConnectors     = []string{" ", " كما أن "}
	interiorConnectors = []string{" ", " بالإضافة إلى ذلك، ", " أيضاً، "}
	finalConnector     = " وأخيراً، "
)

// Disclaimers appended by safety level.
const (
	dangerDisclaimer  = "\n\n⚠️ ملاحظة هامة: أنا هنا لأقدم الدعم والاستماع، لكنني لست بديلاً عن المتخصصين. إذا استمرت هذه المشاعر، أنصح بشدة بالتواصل مع مختص."
	warningDisclaimer = "\n\n💡 تذكر: رعاية الصحة النفسية مهمة. لا تتردد في طلب مساعدة متخصصة إذا احتجت إليها."
)
