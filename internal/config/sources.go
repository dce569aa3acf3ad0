package config

// DefaultSources is the built-in source table: Indian financial news outlets
// with listing pages, category labels, and the selector strategies known to
// work on each layout. Sources supplied via the config file replace this
// table entirely.
func DefaultSources() []SourceSpec {
	newsLinks := Selector{Type: "css", Query: `a[href*="/news/"]`}

	return []SourceSpec{
		{
			Name: "livemint",
			Pages: []SourcePage{
				{URL: "https://www.livemint.com", Category: "homepage"},
				{URL: "https://www.livemint.com/news", Category: "news"},
				{URL: "https://www.livemint.com/news/india", Category: "india"},
				{URL: "https://www.livemint.com/market", Category: "market"},
				{URL: "https://www.livemint.com/companies", Category: "companies"},
				{URL: "https://www.livemint.com/money", Category: "money"},
				{URL: "https://www.livemint.com/economy", Category: "economy"},
				{URL: "https://www.livemint.com/politics", Category: "politics"},
				{URL: "https://www.livemint.com/industry", Category: "industry"},
			},
			Selectors: []Selector{
				{Type: "css", Query: "h2 a"},
				{Type: "css", Query: "h3 a"},
				newsLinks,
			},
		},
		{
			// MoneyControl blocks scrapers aggressively; kept so blocking
			// shows up in the blocked-sites counter rather than silently.
			Name: "moneycontrol",
			Pages: []SourcePage{
				{URL: "https://www.moneycontrol.com/news/", Category: "news"},
				{URL: "https://www.moneycontrol.com/news/business/", Category: "business"},
				{URL: "https://www.moneycontrol.com/news/markets/", Category: "markets"},
				{URL: "https://www.moneycontrol.com/news/economy/", Category: "economy"},
				{URL: "https://www.moneycontrol.com/news/companies/", Category: "companies"},
			},
			Selectors: []Selector{
				{Type: "css", Query: "h1 a"},
				{Type: "css", Query: "h2 a"},
				{Type: "css", Query: "h3 a"},
				newsLinks,
			},
		},
		{
			Name: "economic_times",
			Pages: []SourcePage{
				{URL: "https://economictimes.indiatimes.com/", Category: "homepage"},
				{URL: "https://economictimes.indiatimes.com/markets", Category: "markets"},
				{URL: "https://economictimes.indiatimes.com/news/economy", Category: "economy"},
				{URL: "https://economictimes.indiatimes.com/industry", Category: "industry"},
				{URL: "https://economictimes.indiatimes.com/news/company", Category: "companies"},
			},
			Selectors: []Selector{
				{Type: "css", Query: "h1 a"},
				{Type: "css", Query: "h2 a"},
				newsLinks,
			},
			MaxPerPage: 3,
		},
		{
			Name: "business_standard",
			Pages: []SourcePage{
				{URL: "https://www.business-standard.com/", Category: "homepage"},
				{URL: "https://www.business-standard.com/markets", Category: "markets"},
				{URL: "https://www.business-standard.com/economy", Category: "economy"},
				{URL: "https://www.business-standard.com/companies", Category: "companies"},
				{URL: "https://www.business-standard.com/finance", Category: "finance"},
			},
			Selectors: []Selector{
				{Type: "css", Query: "h1 a"},
				{Type: "css", Query: "h2 a"},
				{Type: "css", Query: "h3 a"},
				newsLinks,
			},
			MaxPerPage: 3,
		},
		{
			Name: "financial_express",
			Pages: []SourcePage{
				{URL: "https://www.financialexpress.com/", Category: "homepage"},
				{URL: "https://www.financialexpress.com/market/", Category: "market"},
				{URL: "https://www.financialexpress.com/economy/", Category: "economy"},
				{URL: "https://www.financialexpress.com/industry/", Category: "industry"},
				{URL: "https://www.financialexpress.com/money/", Category: "money"},
			},
			Selectors: []Selector{
				{Type: "css", Query: "h1 a"},
				{Type: "css", Query: "h2 a"},
				{Type: "css", Query: "h3 a"},
				newsLinks,
			},
			MaxPerPage: 3,
		},
	}
}
