package safety

// CrisisBundle is the terminal payload returned instead of a generated reply
// when a crisis is detected.
type CrisisBundle struct {
	Message           string
	Resources         []string
	EmergencyContacts []string
}

// defaultEmergencyContacts are police, ambulance and fire.
var defaultEmergencyContacts = []string{"122", "123", "180"}

// crisisBundles maps a crisis category to its guidance text and hotline list.
// Categories without an entry fall back to defaultCrisisBundle.
var crisisBundles = map[string]CrisisBundle{
	"suicide": {
		Message: `🚨 أدرك أنك تمر بوقت صعب جداً. الرجاء التواصل فوراً مع:

📞 خط نجدة الطفل (المجلس القومي للطفولة والأمومة): 16000
📞 مصلحة الطب النفسي (وزارة الصحة): 08008880700
📞 مستشفى العباسية للصحة النفسية: 0226336255

📍 الذهاب لأقرب مستشفى حكومي أو قسم طوارئ نفسية
📍 التحدث مع صديق مقرب أو فرد عائلة الآن`,
		Resources: []string{
			"المجلس القومي للطفولة والأمومة: 16000",
			"مصلحة الطب النفسي: 08008880700",
			"مستشفى العباسية: 0226336255",
			"الخط الساخن للصحة النفسية: 0220816831",
		},
	},
	"self_harm": {
		Message: `⚠️ إيذاء النفس هو علامة على معاناة عميقة. دعنا نطلب المساعدة معاً:

📞 مستشفى المعمورة للصحة النفسية (الإسكندرية): 034287000
📞 مستشفى 57357 (دعم نفسي للأطفال): 0225357000
📞 جمعية أصدقاء الصحة النفسية: 0227910885

💡 اقتراحات فورية:
• احتفظ بأدوات حادة بعيداً عن متناول اليد
• اتصل بصديق أو قريب الآن
• اذهب للمشي في مكان آمن`,
		Resources: []string{
			"مستشفى المعمورة: 034287000",
			"مستشفى 57357: 0225357000",
			"جمعية أصدقاء الصحة النفسية: 0227910885",
		},
	},
	"abuse": {
		Message: `🛡️ العنف والاعتداء غير مقبولين. المساعدة متاحة:

📞 المجلس القومي للمرأة: 15115
📞 وحدة مكافحة العنف ضد المرأة: 01148933222
📞 نجدة المرأة: ٠٨٨٨٨٨٨٨٨ (مركز المرأة بالقاهرة)

🚨 إذا كنت في خطر مباشر:
• اتصل بالشرطة: 122
• اذهب لجار أو مكان عام آمن
• احتفظ بأدلة إذا أمكن`,
		Resources: []string{
			"المجلس القومي للمرأة: 15115",
			"وحدة مكافحة العنف: 01148933222",
			"الشرطة: 122",
		},
	},
}

var defaultCrisisBundle = CrisisBundle{
	Message: `🚨 يبدو أنك تمر بأزمة. الرجاء التواصل فوراً مع:

📞 الخط الساخن للصحة النفسية: 0220816831
📞 الإسعاف: 123
📞 الشرطة: 122

• لا تبق وحيداً في هذه اللحظة
• اذهب إلى مكان عام أو اتصل بصديق
• تذكر أن هذه المشاعر مؤقتة والمساعدة متاحة`,
	Resources: []string{
		"الخط الساخن للصحة النفسية: 0220816831",
		"الإسعاف: 123",
		"الشرطة: 122",
	},
}

// ResolveCrisisBundle maps a verdict to its crisis bundle. Unknown or absent
// categories resolve to the default bundle; the function is pure and total.
func ResolveCrisisBundle(verdict RiskVerdict) CrisisBundle {
	bundle, ok := crisisBundles[verdict.Category]
	if !ok {
		bundle = defaultCrisisBundle
	}
	out := CrisisBundle{
		Message:           bundle.Message,
		Resources:         append([]string(nil), bundle.Resources...),
		EmergencyContacts: append([]string(nil), defaultEmergencyContacts...),
	}
	return out
}

// legalDisclaimers are compliance notices keyed by context.
var legalDisclaimers = map[string]string{
	"general":   "TheraBot ليس بديلاً عن الاستشارة الطبية النفسية المتخصصة. في حالات الطوارئ، يرجى الاتصال بالسلطات المختصة.",
	"egypt":     "بموجب القانون المصري، يتم الحفاظ على سرية المحادثات إلا في حالات الخطر الجسيم على النفس أو الآخرين.",
	"reporting": "في حالة الكشف عن نية انتحارية أو إيذاء الآخرين، قد يكون من واجبنا الإبلاغ للجهات المختصة.",
}

// LegalDisclaimer returns the compliance notice for a context, defaulting to
// the general notice for unknown contexts.
func LegalDisclaimer(context string) string {
	if d, ok := legalDisclaimers[context]; ok {
		return d
	}
	return legalDisclaimers["general"]
}
