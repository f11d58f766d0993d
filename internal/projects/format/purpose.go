package format

// LP purpose codes used by callers, mapped to the labels that are stored
// and rendered into Drive artifacts.
var purposeLabels = map[string]string{
	"download":     "Document download",
	"contact":      "Contact inquiry",
	"trial":        "Free trial signup",
	"purchase":     "Product purchase",
	"registration": "Member registration",
	"other":        "Other",
}

// Labels written by earlier releases.
var legacyPurposeLabels = map[string]string{
	"資料ダウンロード":  "download",
	"お問い合わせ":    "contact",
	"無料トライアル申込": "trial",
	"商品購入":      "purchase",
	"会員登録":      "registration",
	"その他":       "other",
}

var purposeCodes = func() map[string]string {
	m := make(map[string]string, len(purposeLabels)+len(legacyPurposeLabels))
	for code, label := range purposeLabels {
		m[label] = code
	}
	for label, code := range legacyPurposeLabels {
		m[label] = code
	}
	return m
}()

// PurposeToInternal passes unknown values through unchanged.
func PurposeToInternal(code string) string {
	if label, ok := purposeLabels[code]; ok {
		return label
	}
	return code
}

// PurposeToExternal passes unknown values through unchanged.
func PurposeToExternal(label string) string {
	if code, ok := purposeCodes[label]; ok {
		return code
	}
	return label
}
