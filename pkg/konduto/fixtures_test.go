package konduto

import "time"

func float64Ptr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func basicCustomer() *Customer {
	return &Customer{
		ID:    "28372",
		Name:  "Júlia da Silva",
		Email: "jsilva@exemplo.com.br",
	}
}

func completeCustomer() *Customer {
	return &Customer{
		ID:        "28372",
		Name:      "Júlia da Silva",
		Email:     "jsilva@exemplo.com.br",
		TaxID:     "12345678909",
		Phone1:    "11987654321",
		New:       true,
		DOB:       NewDate(1970, time.December, 8),
		CreatedAt: NewDate(2014, time.December, 21),
	}
}

func completeAddress() *Address {
	return &Address{
		Name:     "Júlia da Silva",
		Address1: "R. Irmãos Rebouças, 123",
		Address2: "Apto 45",
		City:     "São Paulo",
		State:    "SP",
		Zip:      "01310-000",
		Country:  "BR",
	}
}

func completeShoppingCart() ShoppingCart {
	return ShoppingCart{
		{
			SKU:         "9919023",
			ProductCode: "123456789999",
			Category:    201,
			Name:        "Xbox One",
			Description: "Console da Microsoft",
			UnitCost:    float64Ptr(1999.9),
			Quantity:    1,
			CreatedAt:   NewDate(2014, time.December, 21),
		},
		{
			SKU:       "0017273",
			Category:  202,
			Name:      "Halo 5",
			UnitCost:  float64Ptr(49.9),
			Quantity:  2,
			Discount:  float64Ptr(10),
			CreatedAt: NewDate(2014, time.December, 21),
		},
	}
}

func completeOrder() *Order {
	return &Order{
		ID:                "ORD1237163",
		TotalAmount:       float64Ptr(312.71),
		Customer:          completeCustomer(),
		Purchase:          completeShoppingCart(),
		Visitor:           "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		ShippingAmount:    float64Ptr(5),
		TaxAmount:         float64Ptr(10),
		Currency:          "BRL",
		Installments:      2,
		IP:                "170.149.100.10",
		FirstMessage:      NewDateTime(time.Date(2015, time.April, 25, 22, 10, 0, 0, time.UTC)),
		MessagesExchanged: 2,
		PurchasedAt:       NewDateTime(time.Date(2015, time.April, 25, 22, 28, 32, 0, time.UTC)),
		Analyze:           boolPtr(true),
		Payments: []Payment{
			{
				Type:           PaymentTypeCredit,
				Status:         PaymentStatusApproved,
				Bin:            "490172",
				Last4:          "0012",
				ExpirationDate: "052026",
				Amount:         float64Ptr(302.71),
			},
			{
				Type:   PaymentTypeVoucher,
				Amount: float64Ptr(10),
			},
		},
		Billing:  completeAddress(),
		Shipping: completeAddress(),
	}
}

func createFlight() *Travel {
	return &Travel{
		Type: TravelTypeFlight,
		Departure: &FlightLeg{
			Date:                NewDateTime(time.Date(2018, time.December, 25, 18, 0, 0, 0, time.UTC)),
			NumberOfConnections: 1,
			Class:               TravelClassEconomy,
			FareBasis:           "Y",
			OriginAirport:       "GRU",
			OriginCity:          "São Paulo",
			DestinationAirport:  "SFO",
			DestinationCity:     "San Francisco",
		},
		Return: &FlightLeg{
			Date:               NewDateTime(time.Date(2019, time.January, 10, 9, 30, 0, 0, time.UTC)),
			Class:              TravelClassBusiness,
			OriginAirport:      "SFO",
			DestinationAirport: "GRU",
		},
		Passengers: []Passenger{
			{
				Name:             "Júlia da Silva",
				Document:         "A1B2C3D4",
				DocumentType:     DocumentTypePassport,
				DOB:              NewDate(1970, time.January, 1),
				Nationality:      "BR",
				FrequentTraveler: true,
				Loyalty:          &Loyalty{Program: "advantage", Category: "gold"},
			},
		},
	}
}

func createSeller() *Seller {
	return &Seller{
		ID:        "seller_id",
		Name:      "Seller Name",
		CreatedAt: NewDate(2020, time.June, 1),
	}
}

func createBureauxQueries() []BureauQuery {
	return []BureauQuery{
		{
			Service: "serasa",
			Response: map[string]any{
				"score":        720.0,
				"restrictions": false,
				"name":         "JULIA DA SILVA",
			},
		},
	}
}

func createTriggeredRules() []TriggeredRule {
	return []TriggeredRule{
		{Name: "high amount", Decision: RecommendationReview},
		{Name: "new customer"},
	}
}

func createTriggeredDecisionList() []TriggeredDecision {
	return []TriggeredDecision{
		{Type: "email", Trigger: "jsilva@exemplo.com.br", Decision: RecommendationApprove},
	}
}
