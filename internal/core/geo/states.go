package geo

// USStates returns the reference rows for the 50 states, DC, and the inhabited territories
// the slice is fresh on every call so callers may not alias the table contents
func USStates() []StateInfo {
	return []StateInfo{
		{Code: "AL", Name: "Alabama", Aliases: []string{"Ala"}},
		{Code: "AK", Name: "Alaska"},
		{Code: "AZ", Name: "Arizona", Aliases: []string{"Ariz"}},
		{Code: "AR", Name: "Arkansas", Aliases: []string{"Ark"}},
		{Code: "CA", Name: "California", Aliases: []string{"Calif", "Cal"}},
		{Code: "CO", Name: "Colorado", Aliases: []string{"Colo"}},
		{Code: "CT", Name: "Connecticut", Aliases: []string{"Conn"}},
		{Code: "DE", Name: "Delaware"},
		{Code: "FL", Name: "Florida", Aliases: []string{"Fla"}},
		{Code: "GA", Name: "Georgia"},
		{Code: "HI", Name: "Hawaii", Aliases: []string{"Hawai'i"}},
		{Code: "ID", Name: "Idaho"},
		{Code: "IL", Name: "Illinois", Aliases: []string{"Ill"}},
		{Code: "IN", Name: "Indiana", Aliases: []string{"Ind"}},
		{Code: "IA", Name: "Iowa"},
		{Code: "KS", Name: "Kansas", Aliases: []string{"Kan"}},
		{Code: "KY", Name: "Kentucky"},
		{Code: "LA", Name: "Louisiana"},
		{Code: "ME", Name: "Maine"},
		{Code: "MD", Name: "Maryland"},
		{Code: "MA", Name: "Massachusetts", Aliases: []string{"Mass", "Commonwealth of Massachusetts"}},
		{Code: "MI", Name: "Michigan", Aliases: []string{"Mich"}},
		{Code: "MN", Name: "Minnesota", Aliases: []string{"Minn"}},
		{Code: "MS", Name: "Mississippi", Aliases: []string{"Miss"}},
		{Code: "MO", Name: "Missouri"},
		{Code: "MT", Name: "Montana", Aliases: []string{"Mont"}},
		{Code: "NE", Name: "Nebraska", Aliases: []string{"Neb"}},
		{Code: "NV", Name: "Nevada", Aliases: []string{"Nev"}},
		{Code: "NH", Name: "New Hampshire"},
		{Code: "NJ", Name: "New Jersey"},
		{Code: "NM", Name: "New Mexico"},
		{Code: "NY", Name: "New York", Aliases: []string{"New York State", "NYS"}},
		{Code: "NC", Name: "North Carolina"},
		{Code: "ND", Name: "North Dakota"},
		{Code: "OH", Name: "Ohio"},
		{Code: "OK", Name: "Oklahoma", Aliases: []string{"Okla"}},
		{Code: "OR", Name: "Oregon", Aliases: []string{"Ore"}},
		{Code: "PA", Name: "Pennsylvania", Aliases: []string{"Penn", "Commonwealth of Pennsylvania"}},
		{Code: "RI", Name: "Rhode Island"},
		{Code: "SC", Name: "South Carolina"},
		{Code: "SD", Name: "South Dakota"},
		{Code: "TN", Name: "Tennessee", Aliases: []string{"Tenn"}},
		{Code: "TX", Name: "Texas", Aliases: []string{"Tex"}},
		{Code: "UT", Name: "Utah"},
		{Code: "VT", Name: "Vermont"},
		{Code: "VA", Name: "Virginia", Aliases: []string{"Commonwealth of Virginia"}},
		{Code: "WA", Name: "Washington", Aliases: []string{"Washington State", "Wash"}},
		{Code: "WV", Name: "West Virginia"},
		{Code: "WI", Name: "Wisconsin", Aliases: []string{"Wis", "Wisc"}},
		{Code: "WY", Name: "Wyoming"},
		{Code: "DC", Name: "District of Columbia", Aliases: []string{
			"Washington, DC", "Washington D.C.", "Washington DC", "Washington, D.C.", "D.C.",
		}},
		{Code: "PR", Name: "Puerto Rico", Aliases: []string{"Commonwealth of Puerto Rico"}},
		{Code: "GU", Name: "Guam"},
		{Code: "VI", Name: "Virgin Islands", Aliases: []string{"U.S. Virgin Islands", "US Virgin Islands", "USVI"}},
		{Code: "AS", Name: "American Samoa"},
		{Code: "MP", Name: "Northern Mariana Islands", Aliases: []string{
			"Commonwealth of the Northern Mariana Islands", "CNMI",
		}},
	}
}
