package hotspot

// reference is the built-in catalog used when the configuration does not
// supply one. Intensities are on the engine's [0,1] scale; radii are degrees.
var reference = []Hotspot{
	// South Asia
	{Name: "Delhi", Latitude: 28.6, Longitude: 77.2, Intensity: 0.9, Radius: 5},
	{Name: "Lahore", Latitude: 31.5, Longitude: 74.3, Intensity: 0.85, Radius: 4},
	{Name: "Dhaka", Latitude: 23.8, Longitude: 90.4, Intensity: 0.8, Radius: 4},
	{Name: "Kolkata", Latitude: 22.6, Longitude: 88.4, Intensity: 0.7, Radius: 3},
	{Name: "Mumbai", Latitude: 19.1, Longitude: 72.9, Intensity: 0.6, Radius: 3},
	{Name: "Karachi", Latitude: 24.9, Longitude: 67.0, Intensity: 0.65, Radius: 3},

	// East Asia
	{Name: "Beijing", Latitude: 39.9, Longitude: 116.4, Intensity: 0.75, Radius: 5},
	{Name: "Hebei industrial belt", Latitude: 38.0, Longitude: 114.5, Intensity: 0.8, Radius: 4},
	{Name: "Shanghai", Latitude: 31.2, Longitude: 121.5, Intensity: 0.6, Radius: 4},
	{Name: "Chengdu basin", Latitude: 30.7, Longitude: 104.1, Intensity: 0.65, Radius: 4},
	{Name: "Seoul", Latitude: 37.6, Longitude: 127.0, Intensity: 0.45, Radius: 3},
	{Name: "Tokyo", Latitude: 35.7, Longitude: 139.7, Intensity: 0.3, Radius: 3},

	// Middle East and Africa
	{Name: "Riyadh", Latitude: 24.7, Longitude: 46.7, Intensity: 0.55, Radius: 4},
	{Name: "Cairo", Latitude: 30.0, Longitude: 31.2, Intensity: 0.7, Radius: 4},
	{Name: "Sahara dust", Latitude: 21.0, Longitude: 10.0, Intensity: 0.5, Radius: 12},
	{Name: "Lagos", Latitude: 6.5, Longitude: 3.4, Intensity: 0.6, Radius: 3},
	{Name: "Johannesburg", Latitude: -26.2, Longitude: 28.0, Intensity: 0.45, Radius: 3},

	// Europe
	{Name: "Upper Silesia", Latitude: 50.3, Longitude: 19.0, Intensity: 0.55, Radius: 3},
	{Name: "Po Valley", Latitude: 45.4, Longitude: 10.0, Intensity: 0.5, Radius: 3},
	{Name: "Ruhr", Latitude: 51.5, Longitude: 7.2, Intensity: 0.4, Radius: 3},
	{Name: "London", Latitude: 51.5, Longitude: -0.1, Intensity: 0.3, Radius: 2},
	{Name: "Moscow", Latitude: 55.8, Longitude: 37.6, Intensity: 0.35, Radius: 3},

	// Americas
	{Name: "Mexico City", Latitude: 19.4, Longitude: -99.1, Intensity: 0.6, Radius: 3},
	{Name: "Los Angeles", Latitude: 34.1, Longitude: -118.2, Intensity: 0.45, Radius: 3},
	{Name: "New York", Latitude: 40.7, Longitude: -74.0, Intensity: 0.35, Radius: 3},
	{Name: "Houston", Latitude: 29.8, Longitude: -95.4, Intensity: 0.4, Radius: 3},
	{Name: "Sao Paulo", Latitude: -23.6, Longitude: -46.6, Intensity: 0.45, Radius: 3},
	{Name: "Santiago", Latitude: -33.4, Longitude: -70.7, Intensity: 0.4, Radius: 2},
	{Name: "Amazon fires", Latitude: -9.0, Longitude: -62.0, Intensity: 0.5, Radius: 8},

	// Clean regions pull the field down
	{Name: "Scandinavia", Latitude: 64.0, Longitude: 16.0, Intensity: 0.05, Radius: 8},
	{Name: "Patagonia", Latitude: -46.0, Longitude: -70.0, Intensity: 0.04, Radius: 8},
	{Name: "New Zealand", Latitude: -41.0, Longitude: 174.0, Intensity: 0.05, Radius: 6},
	{Name: "Canadian Shield", Latitude: 56.0, Longitude: -95.0, Intensity: 0.05, Radius: 10},
	{Name: "Antarctica", Latitude: -80.0, Longitude: 0.0, Intensity: 0.01, Radius: 20},
}

var referenceCatalog = MustCatalog(reference)

// Reference returns the built-in reference catalog
func Reference() *Catalog {
	return referenceCatalog
}
