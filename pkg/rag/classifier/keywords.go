package classifier

import "regexp"

// Keyword tables for query categorization. Matching is substring-based on
// the lowercased query, Korean and English mixed.
var (
	specificPriceKeywords = []string{
		"얼마", "정확히", "exactly", "구체적으로", "specifically",
		"돈", "금액", "원", "달러", "만원", "천원", "가격이",
		"비용이", "요금이", "결제", "payment", "pay", "billing",
	}

	generalPlanKeywords = []string{
		"요금제", "플랜", "plan", "종류", "타입", "type", "옵션", "option",
		"서비스", "service", "기능", "feature", "제공", "포함",
		"차이", "difference", "비교", "compare", "추천", "recommend",
	}

	discountKeywords = []string{
		"할인", "discount", "sale", "세일", "특가", "프로모션",
		"promotion", "coupon", "쿠폰", "이벤트", "event",
		"혜택", "benefit", "offer", "deal", "딜",
		"캠페인", "campaign", "기간한정", "limited",
	}

	consultantKeywords = []string{
		"상담원", "상담사", "직접", "통화", "전화", "연결",
		"consultant", "agent", "support", "help", "서포트",
		"문의", "inquiry", "contact", "담당자", "직원",
		"사람", "person", "human", "실제", "real",
	}

	contractKeywords = []string{
		"계약", "contract", "agreement", "계약서", "약관",
		"terms", "조건", "condition", "정책", "policy",
		"법적", "legal", "소송", "lawsuit", "분쟁", "dispute",
	}

	privacyKeywords = []string{
		"개인정보", "privacy", "보안", "security", "비밀번호", "password",
		"아이디", "id", "계정", "account", "로그인", "login",
		"데이터", "data", "정보보호", "gdpr", "개인정보보호법",
	}
)

// Pattern layers refine the keyword pass: a specific-price pattern forces
// escalation, a general-info pattern marks the query retrieval-friendly.
var (
	specificPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`얼마.*받.*나`),
		regexp.MustCompile(`가격.*어떻.*되`),
		regexp.MustCompile(`비용.*얼마`),
		regexp.MustCompile(`정확.*가격`),
		regexp.MustCompile(`정확.*얼마`),
		regexp.MustCompile(`구체적.*비용`),
		regexp.MustCompile(`.*원.*정도`),
	}

	generalInfoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`요금제.*종류`),
		regexp.MustCompile(`플랜.*있.*나`),
		regexp.MustCompile(`서비스.*차이`),
		regexp.MustCompile(`기능.*비교`),
		regexp.MustCompile(`추천.*플랜`),
	}

	consultantPatterns = []*regexp.Regexp{
		regexp.MustCompile(`상담원.*연결`),
		regexp.MustCompile(`직접.*통화`),
		regexp.MustCompile(`사람.*대화`),
	}
)
