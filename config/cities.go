package config

// BuiltinCities are playable without any city configuration
var BuiltinCities = []City{
	{
		Name:        "Amsterdam",
		Lat:         52.367984,
		Lon:         4.903561,
		BoundingBox: "(52.29798183210937,4.724807739257812,52.44471056482437,5.107269287109375)",
	},
	{
		Name:        "Berlin",
		Lat:         52.520008,
		Lon:         13.404954,
		BoundingBox: "(52.354634948622525,13.114929199218748,52.71300326104201,13.745269775390625)",
	},
}

// DefaultCity is used when nothing else matches
const DefaultCity = "Berlin"
