package models

// Fund identifies a mutual fund scheme on the NAV source.
type Fund struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

// FundMeta is the scheme metadata block of a NAV history response.
type FundMeta struct {
	FundHouse      string `json:"fund_house"`
	SchemeType     string `json:"scheme_type"`
	SchemeCategory string `json:"scheme_category"`
	SchemeCode     int    `json:"scheme_code"`
	SchemeName     string `json:"scheme_name"`
}

// NAVRow is one quote of a fund's price history. Date is DD-MM-YYYY.
type NAVRow struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

// FundDetail is a fund's metadata plus its full NAV history, newest first.
type FundDetail struct {
	Meta FundMeta `json:"meta"`
	Data []NAVRow `json:"data"`
}
