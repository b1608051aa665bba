package report

import "brokmang/internal/pnl"

type RollupResponse struct {
	Period        string       `json:"period"`
	Organization  pnl.Result   `json:"organization"`
	BusinessUnits []pnl.Result `json:"business_units"`
	Teams         []pnl.Result `json:"teams"`
	Agents        []pnl.Result `json:"agents"`
}

type RangeResponse struct {
	From    string       `json:"from"`
	To      string       `json:"to"`
	Results []pnl.Result `json:"results"`
}
