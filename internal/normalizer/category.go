package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"MarketAggregator/internal/model"
)

// CategoryRule 一组关键字正则，命中任意一条即归入 Category
type CategoryRule struct {
	Category string
	Patterns []*regexp.Regexp
}

func rule(category string, patterns ...string) CategoryRule {
	r := CategoryRule{Category: category}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}

// categoryRules 顺序即优先级：标题同时命中政治和金融关键字时按靠前的分组算
var categoryRules = []CategoryRule{
	rule("Politics",
		`(?i)\b(election|elected|president|presidential|senate|congress|governor|mayor|parliament|prime minister|democrat|republican|gop|vote|voting|ballot|primary|nominee|impeach|trump|biden|harris|putin|zelensky|geopolitic|war|ceasefire|sanction)s?\b`),
	rule("Crypto",
		`(?i)\b(bitcoin|btc|ethereum|eth|solana|sol|crypto|cryptocurrency|token|defi|nft|blockchain|altcoin|stablecoin|usdt|usdc|dogecoin|doge|xrp|memecoin|airdrop|polkadot|dot|binance|coinbase)s?\b`),
	rule("Economics",
		`(?i)\b(fed|federal reserve|interest rate|rate cut|rate hike|inflation|cpi|gdp|recession|unemployment|jobs report|treasury|bond yield|tariff|economy|economic|s&p|nasdaq|dow jones|stock market)s?\b`),
	rule("Technology",
		`(?i)\b(ai|artificial intelligence|openai|chatgpt|gpt-?\d*|llm|apple|iphone|google|microsoft|nvidia|tesla|meta|software|tech|technology|chip|semiconductor|quantum|robot)s?\b`),
	rule("Sports",
		`(?i)\b(nba|nfl|mlb|nhl|fifa|uefa|world cup|super bowl|champions league|premier league|olympics?|tennis|golf|f1|formula 1|ufc|boxing|match|game|championship|playoffs?|finals?|league|cup|team|vs\.?)\b`),
	rule("Entertainment",
		`(?i)\b(oscars?|grammys?|emmys?|movie|film|box office|album|song|music|netflix|tv show|celebrity|taylor swift|concert|award|spotify|youtube|tiktok|streamer)s?\b`),
	rule("Science",
		`(?i)\b(science|scientific|climate|temperature|weather|hurricane|earthquake|pandemic|covid|vaccine|virus|disease|research|discovery|nobel|physics|biology)s?\b`),
	rule("Business",
		`(?i)\b(ceo|company|companies|merger|acquisition|ipo|earnings|revenue|market cap|layoffs?|startup|bankruptcy|stock|shares|amazon|walmart)s?\b`),
	rule("Space",
		`(?i)\b(space|spacex|nasa|rocket|launch|mars|moon|lunar|orbit|satellite|starship|asteroid|astronaut)s?\b`),
}

// InferCategory 按顺序匹配标题，第一条命中的分组胜出，都不命中返回 Other
func InferCategory(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.CategoryOther
	}
	for _, r := range categoryRules {
		for _, re := range r.Patterns {
			if re.MatchString(title) {
				return r.Category
			}
		}
	}
	return model.CategoryOther
}

// CategoryOrInfer 平台给了分类就用平台的（首字母大写），否则按标题推断
func CategoryOrInfer(explicit, title string) string {
	explicit = strings.TrimSpace(explicit)
	if explicit == "" {
		return InferCategory(title)
	}
	r, size := utf8.DecodeRuneInString(explicit)
	return string(unicode.ToUpper(r)) + explicit[size:]
}

// Categories 支持的分类列表（按推断优先级）
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		out = append(out, r.Category)
	}
	return append(out, model.CategoryOther)
}
