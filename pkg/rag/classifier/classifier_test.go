package classifier

import (
	"reflect"
	"testing"
)

func TestClassifySpecificPrice(t *testing.T) {
	result := Classify("프리미엄 플랜이 정확히 얼마예요?")

	if !result.IsSensitive {
		t.Error("specific price question must be sensitive")
	}
	if result.QueryType != TypeSpecificPrice {
		t.Errorf("query_type = %q, want %q", result.QueryType, TypeSpecificPrice)
	}
	if result.Confidence < 0.9 {
		t.Errorf("confidence = %.2f, want >= 0.9", result.Confidence)
	}
}

func TestClassifyGeneralPlanInfo(t *testing.T) {
	result := Classify("요금제 종류가 뭐가 있나요?")

	if result.IsSensitive {
		t.Error("general plan question must not be sensitive")
	}
	if !result.ShouldTryRag {
		t.Error("general plan question should try retrieval first")
	}
	if result.QueryType != TypeGeneralPlanInfo {
		t.Errorf("query_type = %q, want %q", result.QueryType, TypeGeneralPlanInfo)
	}
}

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantType      string
		wantSensitive bool
		wantCategory  string
	}{
		{"consultant request", "상담원과 연결해주세요", TypeConsultant, true, CategoryConsultant},
		{"discount inquiry", "할인 이벤트가 있나요?", TypeDiscount, true, CategoryDiscount},
		{"contract inquiry", "계약서 조건을 알려주세요", TypeContract, true, CategoryContract},
		{"privacy inquiry", "개인정보는 어떻게 보호되나요?", TypePrivacy, true, CategoryPrivacy},
		{"price pattern", "비용이 얼마인가요?", TypeSpecificPrice, true, CategorySpecificPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.query)
			if result.QueryType != tt.wantType {
				t.Errorf("query_type = %q, want %q", result.QueryType, tt.wantType)
			}
			if result.IsSensitive != tt.wantSensitive {
				t.Errorf("is_sensitive = %v, want %v", result.IsSensitive, tt.wantSensitive)
			}
			found := false
			for _, c := range result.Categories {
				if c == tt.wantCategory {
					found = true
				}
			}
			if !found {
				t.Errorf("categories %v missing %q", result.Categories, tt.wantCategory)
			}
		})
	}
}

func TestClassifyGeneralFallthrough(t *testing.T) {
	result := Classify("회사 소개를 해주세요")

	if result.IsSensitive {
		t.Error("plain question must not be sensitive")
	}
	if result.QueryType != TypeGeneral {
		t.Errorf("query_type = %q, want %q", result.QueryType, TypeGeneral)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %.2f, want 0", result.Confidence)
	}
}

func TestClassifyLastRuleWinsQueryType(t *testing.T) {
	// Both a price keyword and a consultant pattern: the consultant rule
	// runs later and owns query_type, the price category stays attached.
	result := Classify("정확한 가격 때문에 상담원 연결해주세요")

	if result.QueryType != TypeConsultant {
		t.Errorf("query_type = %q, want %q", result.QueryType, TypeConsultant)
	}
	hasPrice := false
	for _, c := range result.Categories {
		if c == CategorySpecificPrice {
			hasPrice = true
		}
	}
	if !hasPrice {
		t.Errorf("categories %v should retain specific_price", result.Categories)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	query := "프리미엄 플랜 할인 가격이 정확히 얼마인가요? 상담원 연결도 가능한가요?"
	first := Classify(query)
	for i := 0; i < 10; i++ {
		if got := Classify(query); !reflect.DeepEqual(got, first) {
			t.Fatalf("classification not deterministic:\nfirst: %+v\n got: %+v", first, got)
		}
	}
}

func TestClassifyEnglishKeywords(t *testing.T) {
	result := Classify("What is the exact billing amount?")

	if !result.IsSensitive {
		t.Error("english billing question must be sensitive")
	}
	if result.QueryType != TypeSpecificPrice {
		t.Errorf("query_type = %q, want %q", result.QueryType, TypeSpecificPrice)
	}
}
