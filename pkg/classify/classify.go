// Package classify enriches raw feed text into the event fields the map
// needs: an event type from the closed enumeration, an actor country, a
// plotted location, and a coarse news category. All matching is keyword
// driven; the feeds are bilingual (English/Chinese), so the tables are too.
package classify

import (
	"regexp"
	"strings"

	"github.com/flashpoint-tracker/flashpoint/pkg/store"
)

// DefaultCoordinates is the region centroid used when nothing better matches.
var DefaultCoordinates = [2]float64{28.0, 43.0}

// typeOrder fixes evaluation order: the first matching type wins, so the more
// specific kinetic categories are tried before intel/diplomatic catch-alls.
var typeOrder = []store.EventType{
	store.TypeStrike,
	store.TypeBlockade,
	store.TypeAirspace,
	store.TypeIntel,
	store.TypeDiplomatic,
}

var typePatterns = map[store.EventType][]*regexp.Regexp{
	store.TypeStrike: compileAll(
		`airstrike`, `strike`, `explosion`, `attack`, `bombing`,
		`rocket`, `missile`, `drone`,
		`空袭`, `打击`, `爆炸`, `袭击`, `攻击`, `轰炸`,
	),
	store.TypeBlockade: compileAll(
		`blockade`, `intercept`, `seiz[uo]re`, `boarding`,
		`vessel.*not.*allowed`, `shipping.*warning`, `maritime.*alert`, `naval.*warning`,
		`ship.*banned`, `vessel.*banned`, `strait.*closed`, `waterway.*closed`,
		`shipping.*lane.*closed`, `passage.*denied`, `transit.*banned`,
		`封锁`, `拦截`, `扣押`, `船只.*禁止`, `海峡.*关闭`, `航道.*封锁`,
	),
	store.TypeAirspace: compileAll(
		`no-fly`, `airspace`, `air.?defen[cs]e`,
		`禁飞`, `封空`, `领空`, `防空`,
	),
	store.TypeIntel: compileAll(
		`intelligence`, `satellite`, `reconnaissance`, `radar`,
		`情报`, `卫星`, `侦察`, `雷达`, `监听`,
	),
	store.TypeDiplomatic: compileAll(
		`protest`, `negotiat`, `diplomat`, `statement`, `condemn`, `warn`,
		`抗议`, `谈判`, `外交`, `声明`, `谴责`, `警告`,
	),
}

// Type classifies text into an event type. Unmatched text defaults to intel:
// an OSINT report that triggers none of the kinetic patterns is still a
// report worth plotting.
func Type(text string) store.EventType {
	lower := strings.ToLower(text)
	for _, t := range typeOrder {
		for _, re := range typePatterns[t] {
			if re.MatchString(lower) {
				return t
			}
		}
	}
	return store.TypeIntel
}

// countryMapping maps trigger keywords to the actor country label. Order
// matters for overlapping keywords, so it is a slice, not a map.
var countryMapping = []struct {
	keyword string
	country string
}{
	{"israel", "israel"},
	{"以色列", "israel"},
	{"gaza", "israel"},
	{"加沙", "israel"},
	{"tel aviv", "israel"},
	{"jerusalem", "israel"},
	{"tehran", "iran"},
	{"lebanon", "israel"},
	{"黎巴嫩", "israel"},
	{"iran", "iran"},
	{"伊朗", "iran"},
	{"yemen", "iran"},
	{"也门", "iran"},
	{"syria", "iran"},
	{"叙利亚", "iran"},
	{"usa", "usa"},
	{"美国", "usa"},
	{"saudi", "usa"},
	{"沙特", "usa"},
	{"uae", "usa"},
	{"阿联酋", "usa"},
}

// Country detects the actor country from text, defaulting to "iran".
func Country(text string) string {
	lower := strings.ToLower(text)
	for _, m := range countryMapping {
		if strings.Contains(lower, m.keyword) {
			return m.country
		}
	}
	return "iran"
}

// knownLocations maps display names to (lat, lon).
var knownLocations = map[string][2]float64{
	"Gaza":              {31.5, 34.47},
	"Gaza City":         {31.5, 34.47},
	"Tel Aviv":          {32.08, 34.78},
	"Jerusalem":         {31.77, 35.22},
	"Haifa":             {32.82, 34.98},
	"Tehran":            {35.69, 51.39},
	"Strait of Hormuz":  {26.56, 56.27},
	"Red Sea":           {20.0, 38.0},
	"Beirut":            {33.89, 35.49},
	"Damascus":          {33.51, 36.29},
	"Persian Gulf":      {27.0, 52.0},
	"West Bank":         {32.0, 35.2},
	"Rafah":             {31.29, 34.25},
	"Khan Younis":       {31.34, 34.31},
	"Golan Heights":     {33.18, 35.73},
	"Baghdad":           {33.31, 44.36},
	"Sanaa":             {15.37, 47.61},
	"Hodeidah":          {14.80, 42.95},
	"Riyadh":            {24.71, 46.68},
	"Abu Dhabi":         {24.45, 54.38},
	"Dubai":             {25.20, 55.27},
	"Doha":              {25.29, 51.53},
	"Kuwait":            {29.31, 47.48},
	"Bahrain":           {26.06, 50.56},
	"Muscat":            {23.59, 58.38},
	"Ankara":            {39.93, 32.85},
	"Istanbul":          {41.01, 28.97},
	"Amman":             {31.95, 35.91},
	"Cairo":             {30.04, 31.24},
	"Nicosia":           {35.19, 33.38},
	"特拉维夫":          {32.08, 34.78},
	"耶路撒冷":          {31.77, 35.22},
	"德黑兰":            {35.69, 51.39},
	"霍尔木兹海峡":      {26.56, 56.27},
	"红海":              {20.0, 38.0},
	"波斯湾":            {27.0, 52.0},
	"加沙":              {31.5, 34.47},
}

// countryCoordinates are per-country fallbacks when no named location is in
// the text. The usa entry points at US forces in the Middle East, not CONUS.
var countryCoordinates = map[string][2]float64{
	"israel":  {32.0, 35.0},
	"iran":    {32.0, 53.0},
	"usa":     {28.5, 45.0},
	"saudi":   {24.0, 45.0},
	"uae":     {24.0, 54.0},
	"yemen":   {15.5, 48.0},
	"syria":   {35.0, 38.0},
	"lebanon": {34.0, 36.0},
	"turkey":  {39.0, 35.0},
	"iraq":    {33.0, 44.0},
	"jordan":  {31.0, 36.0},
	"egypt":   {27.0, 30.0},
}

// Locate finds the most specific (longest) known location named in the text.
// Falls back to the country centroid, then the region default. The returned
// name is empty only when no named location matched.
func Locate(text, country string) (string, [2]float64) {
	lower := strings.ToLower(text)
	bestName := ""
	var bestCoords [2]float64
	for name, coords := range knownLocations {
		if strings.Contains(lower, strings.ToLower(name)) && len(name) > len(bestName) {
			bestName = name
			bestCoords = coords
		}
	}
	if bestName != "" {
		return bestName, bestCoords
	}
	if coords, ok := countryCoordinates[country]; ok {
		return "", coords
	}
	return "", DefaultCoordinates
}

var newsCategories = []struct {
	name     string
	patterns []*regexp.Regexp
}{
	{"military", compileAll(
		`strike`, `attack`, `military`, `war`, `conflict`, `battle`,
		`missile`, `drone`, `rocket`,
		`空袭`, `攻击`, `战争`, `导弹`, `无人机`,
	)},
	{"diplomatic", compileAll(
		`talks`, `summit`, `meeting`, `diplomat`, `agreement`, `treaty`,
		`condemn`, `protest`, `warning`,
		`谈判`, `会议`, `外交`, `协议`, `谴责`, `抗议`, `警告`,
	)},
	{"humanitarian", compileAll(
		`aid`, `refugee`, `casualt`, `humanitarian`, `crisis`, `displacement`,
		`援助`, `难民`, `人道主义`, `伤亡`,
	)},
}

// Category buckets a headline for the news archive. Unmatched text is
// "general".
func Category(text string) string {
	lower := strings.ToLower(text)
	for _, c := range newsCategories {
		for _, re := range c.patterns {
			if re.MatchString(lower) {
				return c.name
			}
		}
	}
	return "general"
}

// relevanceKeywords gates which trending headlines make the ticker.
var relevanceKeywords = []string{
	"israel", "iran", "gaza", "hamas", "hezbollah",
	"middle east", "syria", "yemen", "red sea", "hormuz",
	"lebanon", "palestine", "west bank", "tel aviv", "jerusalem",
	"tehran", "gulf",
	"以色列", "伊朗", "加沙", "哈马斯", "真主党",
	"中东", "叙利亚", "也门", "红海", "霍尔木兹",
	"黎巴嫩", "巴勒斯坦", "特拉维夫", "耶路撒冷", "德黑兰", "海湾", "波斯湾",
}

// Relevant reports whether text concerns the tracked region at all.
func Relevant(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range relevanceKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
