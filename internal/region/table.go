package region

// seedRegions lists the 50 US states and the District of Columbia.
var seedRegions = []Info{
	{FullName: "Alabama", Abbreviation: "AL"},
	{FullName: "Alaska", Abbreviation: "AK"},
	{FullName: "Arizona", Abbreviation: "AZ"},
	{FullName: "Arkansas", Abbreviation: "AR"},
	{FullName: "California", Abbreviation: "CA"},
	{FullName: "Colorado", Abbreviation: "CO"},
	{FullName: "Connecticut", Abbreviation: "CT"},
	{FullName: "Delaware", Abbreviation: "DE"},
	{FullName: "District of Columbia", Abbreviation: "DC"},
	{FullName: "Florida", Abbreviation: "FL"},
	{FullName: "Georgia", Abbreviation: "GA"},
	{FullName: "Hawaii", Abbreviation: "HI"},
	{FullName: "Idaho", Abbreviation: "ID"},
	{FullName: "Illinois", Abbreviation: "IL"},
	{FullName: "Indiana", Abbreviation: "IN"},
	{FullName: "Iowa", Abbreviation: "IA"},
	{FullName: "Kansas", Abbreviation: "KS"},
	{FullName: "Kentucky", Abbreviation: "KY"},
	{FullName: "Louisiana", Abbreviation: "LA"},
	{FullName: "Maine", Abbreviation: "ME"},
	{FullName: "Maryland", Abbreviation: "MD"},
	{FullName: "Massachusetts", Abbreviation: "MA"},
	{FullName: "Michigan", Abbreviation: "MI"},
	{FullName: "Minnesota", Abbreviation: "MN"},
	{FullName: "Mississippi", Abbreviation: "MS"},
	{FullName: "Missouri", Abbreviation: "MO"},
	{FullName: "Montana", Abbreviation: "MT"},
	{FullName: "Nebraska", Abbreviation: "NE"},
	{FullName: "Nevada", Abbreviation: "NV"},
	{FullName: "New Hampshire", Abbreviation: "NH"},
	{FullName: "New Jersey", Abbreviation: "NJ"},
	{FullName: "New Mexico", Abbreviation: "NM"},
	{FullName: "New York", Abbreviation: "NY"},
	{FullName: "North Carolina", Abbreviation: "NC"},
	{FullName: "North Dakota", Abbreviation: "ND"},
	{FullName: "Ohio", Abbreviation: "OH"},
	{FullName: "Oklahoma", Abbreviation: "OK"},
	{FullName: "Oregon", Abbreviation: "OR"},
	{FullName: "Pennsylvania", Abbreviation: "PA"},
	{FullName: "Rhode Island", Abbreviation: "RI"},
	{FullName: "South Carolina", Abbreviation: "SC"},
	{FullName: "South Dakota", Abbreviation: "SD"},
	{FullName: "Tennessee", Abbreviation: "TN"},
	{FullName: "Texas", Abbreviation: "TX"},
	{FullName: "Utah", Abbreviation: "UT"},
	{FullName: "Vermont", Abbreviation: "VT"},
	{FullName: "Virginia", Abbreviation: "VA"},
	{FullName: "Washington", Abbreviation: "WA"},
	{FullName: "West Virginia", Abbreviation: "WV"},
	{FullName: "Wisconsin", Abbreviation: "WI"},
	{FullName: "Wyoming", Abbreviation: "WY"},
}
