package leveling

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when a requested locale is empty, malformed or unsupported.
const DefaultLocale = "en"

// supportedLocales is index-aligned with localeTags.
var (
	supportedLocales = []string{"en", "ja"}
	localeTags       = []language.Tag{language.English, language.Japanese}
	localeMatcher    = language.NewMatcher(localeTags)
)

var catalog = map[string]map[string]string{
	"en": {
		"xp.tier.minimal":   "Less than half of the target. Showing up still counts, so keep the chain going.",
		"xp.tier.partial":   "More than half of the target done. Steady repetition is what builds the habit.",
		"xp.tier.near":      "Almost there. You finished close to the planned target.",
		"xp.tier.optimal":   "Right on plan. Sticking to the plan earns the full XP multiplier.",
		"xp.tier.mild_over": "A little beyond the plan. Keep the pace sustainable.",
		"xp.tier.over":      "Far beyond the plan. Pace yourself to avoid burnout; the plan pays best.",

		"babystep.lv50.name":      "%s (half workload)",
		"babystep.lv50.rationale": "Halving the workload turns the goal into one you can reliably hit, and every success builds confidence.",
		"babystep.lv10.name":      "%s (just 2 minutes)",
		"babystep.lv10.rationale": "Doing only two minutes makes starting effortless. A tiny action becomes the trigger that forms the habit.",
	},
	"ja": {
		"xp.tier.minimal":   "目標の半分未満でした。取り組んだこと自体に価値があります。続けていきましょう。",
		"xp.tier.partial":   "目標の半分以上を達成しました。積み重ねが習慣をつくります。",
		"xp.tier.near":      "あと少しで目標達成です。計画に近いペースで進んでいます。",
		"xp.tier.optimal":   "計画どおりの達成です。最大の経験値倍率を獲得しました。",
		"xp.tier.mild_over": "計画を少し上回りました。無理のないペースを保ちましょう。",
		"xp.tier.over":      "計画を大きく上回りました。燃え尽きを防ぐため、計画のペースを大切にしましょう。",

		"babystep.lv50.name":      "%s（作業量を半分に）",
		"babystep.lv50.rationale": "作業量を半分にして確実に達成できる目標にし、成功体験で自信を積み上げます。",
		"babystep.lv10.name":      "%s（2分だけ）",
		"babystep.lv10.rationale": "2分だけの最小限の行動をきっかけにして、習慣そのものを定着させます。",
	},
}

// SupportedLocales returns the locales with a full message catalog.
func SupportedLocales() []string {
	out := make([]string, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

// ResolveLocale maps a BCP 47-ish tag ("ja-JP", "en_US") to a supported
// locale, or DefaultLocale when nothing matches.
func ResolveLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supportedLocales) {
		return DefaultLocale
	}
	return supportedLocales[idx]
}

// Message renders key in locale. Keys missing from the locale fall back to
// DefaultLocale; unknown keys render as the key itself.
func Message(locale, key string) string {
	if msg, ok := catalog[ResolveLocale(locale)][key]; ok {
		return msg
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Messagef renders a catalog template with args.
func Messagef(locale, key string, args ...any) string {
	return fmt.Sprintf(Message(locale, key), args...)
}
