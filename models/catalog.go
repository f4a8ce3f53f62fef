package models

var Categories = []string{
	"Water and Sanitation",
	"Electricity",
	"Roads and Transport",
	"Waste Management",
	"Health",
	"Education",
	"Public Safety",
	"Other",
}

var Municipalities = []string{
	"City of Cape Town",
	"eThekwini Metropolitan",
	"City of Johannesburg",
	"City of Tshwane",
	"Nelson Mandela Bay",
	"Buffalo City",
	"Mangaung Metropolitan",
	"Other",
}

// Catalog is what the report form needs to render its pickers
type Catalog struct {
	Categories     []string `json:"categories"`
	Municipalities []string `json:"municipalities"`
	Statuses       []Status `json:"statuses"`
}

func GetCatalog() Catalog {
	return Catalog{
		Categories:     Categories,
		Municipalities: Municipalities,
		Statuses:       Statuses,
	}
}
