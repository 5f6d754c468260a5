package scraper

// Rule describes how to obtain one daily data point
type Rule struct {
	Name           string `yaml:"name" json:"name"`
	EntryURL       string `yaml:"entry_url" json:"entry_url"`
	LinkSelector   string `yaml:"link_selector,omitempty" json:"link_selector,omitempty"` // optional hop to a featured page
	TargetSelector string `yaml:"target_selector" json:"target_selector"`
	HistoryFile    string `yaml:"history_file" json:"history_file"`
}

// Result is the data point produced by a rule
type Result struct {
	Rule string `json:"rule"`
	URL  string `json:"url"` // page the text was extracted from
	Text string `json:"text"`
}
