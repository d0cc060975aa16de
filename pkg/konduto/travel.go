package konduto

type TravelType string

const TravelTypeFlight TravelType = "flight"

type TravelClass string

const (
	TravelClassEconomy  TravelClass = "economy"
	TravelClassBusiness TravelClass = "business"
	TravelClassFirst    TravelClass = "first"
)

type DocumentType string

const (
	DocumentTypePassport DocumentType = "passport"
	DocumentTypeID       DocumentType = "id"
)

// Travel is the flight variant of an order's Purchase.
type Travel struct {
	Type       TravelType  `json:"type,omitempty" validate:"required,oneof=flight"`
	Departure  *FlightLeg  `json:"departure,omitempty" validate:"required"`
	Return     *FlightLeg  `json:"return,omitempty"`
	Passengers []Passenger `json:"passengers,omitempty" validate:"required,min=1,dive"`
}

func (*Travel) purchase() {}

func (t *Travel) Validate() error {
	if t == nil {
		return &InvalidEntityError{Entity: "travel", Message: "travel is required"}
	}
	return check("travel", t)
}

// FlightLeg is one direction of the trip. Airports are IATA codes.
type FlightLeg struct {
	Date                DateTime    `json:"date,omitzero" validate:"required"`
	NumberOfConnections int         `json:"number_of_connections,omitempty" validate:"gte=0"`
	Class               TravelClass `json:"class,omitempty" validate:"omitempty,oneof=economy business first"`
	FareBasis           string      `json:"fare_basis,omitempty" validate:"max=20"`
	OriginAirport       string      `json:"origin_airport,omitempty" validate:"required,len=3,alpha,uppercase"`
	OriginCity          string      `json:"origin_city,omitempty" validate:"max=100"`
	DestinationAirport  string      `json:"destination_airport,omitempty" validate:"required,len=3,alpha,uppercase"`
	DestinationCity     string      `json:"destination_city,omitempty" validate:"max=100"`
}

type Passenger struct {
	Name             string       `json:"name,omitempty" validate:"required,max=100"`
	Document         string       `json:"document,omitempty" validate:"required,max=100"`
	DocumentType     DocumentType `json:"document_type,omitempty" validate:"omitempty,oneof=passport id"`
	DOB              Date         `json:"dob,omitzero"`
	Nationality      string       `json:"nationality,omitempty" validate:"omitempty,len=2,alpha"`
	FrequentTraveler bool         `json:"frequent_traveler,omitempty"`
	SpecialNeeds     bool         `json:"special_needs,omitempty"`
	Loyalty          *Loyalty     `json:"loyalty,omitempty"`
}

type Loyalty struct {
	Program  string `json:"program,omitempty" validate:"max=100"`
	Category string `json:"category,omitempty" validate:"max=100"`
}
