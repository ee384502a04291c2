package catalog

// Default returns the built-in catalog used when no catalog file is
// configured. It covers the common hematology panel plus a pair of
// qualitative serology tests.
func Default() *Catalog {
	c, err := New([]Entry{
		{
			Name:    "Hemoglobin",
			Aliases: []string{"HB", "HGB", "HAEMOGLOBIN", "HB ESTIMATION", "HEMOGLOBIN ESTIMATION"},
			Unit:    "g/dL",
			Range:   &Range{Low: "12.0", High: "15.0"},
		},
		{
			Name:    "PCV",
			Aliases: []string{"PACKED CELL VOLUME", "PCV PACKED CELL VOLUME", "HEMATOCRIT", "HCT"},
			Unit:    "%",
			Range:   &Range{Low: "36.0", High: "46.0"},
		},
		{
			Name:    "RBC Count",
			Aliases: []string{"RBC", "RED BLOOD CELL COUNT", "TOTAL RBC COUNT"},
			Unit:    "million/cmm",
			Range:   &Range{Low: "4.5", High: "5.5"},
		},
		{
			Name:    "WBC Count",
			Aliases: []string{"WBC", "WHITE BLOOD CELL COUNT", "TOTAL WBC COUNT", "TOTAL LEUCOCYTE COUNT", "TLC"},
			Unit:    "/cmm",
			Range:   &Range{Low: "4000", High: "11000"},
		},
		{
			Name:    "Platelet Count",
			Aliases: []string{"PLATELETS", "PLT", "PLATELET"},
			Unit:    "lakhs/cmm",
			Range:   &Range{Low: "1.5", High: "4.5"},
		},
		{
			Name:    "Glucose",
			Aliases: []string{"GLUCOSE FASTING", "FASTING BLOOD SUGAR", "FBS", "BLOOD GLUCOSE"},
			Unit:    "mg/dL",
			Range:   &Range{Low: "70", High: "99"},
		},
		{
			Name:    "ESR",
			Aliases: []string{"ERYTHROCYTE SEDIMENTATION RATE"},
			Unit:    "mm/hr",
			Range:   &Range{High: "20"},
		},
		{
			Name:        "Widal",
			Aliases:     []string{"WIDAL TEST"},
			Qualitative: true,
			Negative:    []string{"NEGATIVE", "NON-REACTIVE"},
		},
		{
			Name:        "Malaria",
			Aliases:     []string{"MALARIA PARASITE", "MP", "MALARIAL PARASITE"},
			Qualitative: true,
			Negative:    []string{"NEGATIVE", "ABSENT", "NOT SEEN"},
		},
	})
	if err != nil {
		// The built-in entries are fixed at compile time; a validation
		// failure here is a programming error.
		panic(err)
	}
	return c
}
