package category

import "strings"

// PlaceType is a place-type code from the places service taxonomy. Codes
// follow the declaration order of the service's type list, so a code received
// from a mobile SDK and the matching web-service type name refer to the same
// PlaceType.
type PlaceType int

// PlaceTypeUnknown is used when the service returned no type or a type name
// this build does not know.
const PlaceTypeUnknown PlaceType = -1

const (
	PlaceTypeAccounting PlaceType = iota
	PlaceTypeAdministrativeAreaLevel1
	PlaceTypeAdministrativeAreaLevel2
	PlaceTypeAdministrativeAreaLevel3
	PlaceTypeAdministrativeAreaLevel4
	PlaceTypeAdministrativeAreaLevel5
	PlaceTypeAirport
	PlaceTypeAmusementPark
	PlaceTypeAquarium
	PlaceTypeArtGallery
	PlaceTypeATM
	PlaceTypeBakery
	PlaceTypeBank
	PlaceTypeBar
	PlaceTypeBeautySalon
	PlaceTypeBicycleStore
	PlaceTypeBookStore
	PlaceTypeBowlingAlley
	PlaceTypeBusStation
	PlaceTypeCafe
	PlaceTypeCampground
	PlaceTypeCarDealer
	PlaceTypeCarRental
	PlaceTypeCarRepair
	PlaceTypeCarWash
	PlaceTypeCasino
	PlaceTypeCemetery
	PlaceTypeChurch
	PlaceTypeCityHall
	PlaceTypeClothingStore
	PlaceTypeColloquialArea
	PlaceTypeConvenienceStore
	PlaceTypeCountry
	PlaceTypeCourthouse
	PlaceTypeDentist
	PlaceTypeDepartmentStore
	PlaceTypeDoctor
	PlaceTypeElectrician
	PlaceTypeElectronicsStore
	PlaceTypeEmbassy
	PlaceTypeEstablishment
	PlaceTypeFinance
	PlaceTypeFireStation
	PlaceTypeFloor
	PlaceTypeFlorist
	PlaceTypeFood
	PlaceTypeFuneralHome
	PlaceTypeFurnitureStore
	PlaceTypeGasStation
	PlaceTypeGeneralContractor
	PlaceTypeGeocode
	PlaceTypeGroceryOrSupermarket
	PlaceTypeGym
	PlaceTypeHairCare
	PlaceTypeHardwareStore
	PlaceTypeHealth
	PlaceTypeHinduTemple
	PlaceTypeHomeGoodsStore
	PlaceTypeHospital
	PlaceTypeInsuranceAgency
	PlaceTypeIntersection
	PlaceTypeJewelryStore
	PlaceTypeLaundry
	PlaceTypeLawyer
	PlaceTypeLibrary
	PlaceTypeLiquorStore
	PlaceTypeLocalGovernmentOffice
	PlaceTypeLocality
	PlaceTypeLocksmith
	PlaceTypeLodging
	PlaceTypeMealDelivery
	PlaceTypeMealTakeaway
	PlaceTypeMosque
	PlaceTypeMovieRental
	PlaceTypeMovieTheater
	PlaceTypeMovingCompany
	PlaceTypeMuseum
	PlaceTypeNaturalFeature
	PlaceTypeNeighborhood
	PlaceTypeNightClub
	PlaceTypeOther
	PlaceTypePainter
	PlaceTypePark
	PlaceTypeParking
	PlaceTypePetStore
	PlaceTypePharmacy
	PlaceTypePhysiotherapist
	PlaceTypePlaceOfWorship
	PlaceTypePlumber
	PlaceTypePointOfInterest
	PlaceTypePolice
	PlaceTypePolitical
	PlaceTypePostBox
	PlaceTypePostOffice
	PlaceTypePostalCode
	PlaceTypePostalCodePrefix
	PlaceTypePostalCodeSuffix
	PlaceTypePostalTown
	PlaceTypePremise
	PlaceTypeRealEstateAgency
	PlaceTypeRestaurant
	PlaceTypeRoofingContractor
	PlaceTypeRoom
	PlaceTypeRoute
	PlaceTypeRVPark
	PlaceTypeSchool
	PlaceTypeShoeStore
	PlaceTypeShoppingMall
	PlaceTypeSpa
	PlaceTypeStadium
	PlaceTypeStorage
	PlaceTypeStore
	PlaceTypeStreetAddress
	PlaceTypeStreetNumber
	PlaceTypeSublocality
	PlaceTypeSublocalityLevel1
	PlaceTypeSublocalityLevel2
	PlaceTypeSublocalityLevel3
	PlaceTypeSublocalityLevel4
	PlaceTypeSublocalityLevel5
	PlaceTypeSubpremise
	PlaceTypeSubwayStation
	PlaceTypeSupermarket
	PlaceTypeSynagogue
	PlaceTypeTaxiStand
	PlaceTypeTrainStation
	PlaceTypeTransitStation
	PlaceTypeTravelAgency
	PlaceTypeVeterinaryCare
	PlaceTypeZoo

	placeTypeCount
)

// placeTypeNames holds the web-service names, indexed by PlaceType.
var placeTypeNames = [placeTypeCount]string{
	"accounting",
	"administrative_area_level_1",
	"administrative_area_level_2",
	"administrative_area_level_3",
	"administrative_area_level_4",
	"administrative_area_level_5",
	"airport",
	"amusement_park",
	"aquarium",
	"art_gallery",
	"atm",
	"bakery",
	"bank",
	"bar",
	"beauty_salon",
	"bicycle_store",
	"book_store",
	"bowling_alley",
	"bus_station",
	"cafe",
	"campground",
	"car_dealer",
	"car_rental",
	"car_repair",
	"car_wash",
	"casino",
	"cemetery",
	"church",
	"city_hall",
	"clothing_store",
	"colloquial_area",
	"convenience_store",
	"country",
	"courthouse",
	"dentist",
	"department_store",
	"doctor",
	"electrician",
	"electronics_store",
	"embassy",
	"establishment",
	"finance",
	"fire_station",
	"floor",
	"florist",
	"food",
	"funeral_home",
	"furniture_store",
	"gas_station",
	"general_contractor",
	"geocode",
	"grocery_or_supermarket",
	"gym",
	"hair_care",
	"hardware_store",
	"health",
	"hindu_temple",
	"home_goods_store",
	"hospital",
	"insurance_agency",
	"intersection",
	"jewelry_store",
	"laundry",
	"lawyer",
	"library",
	"liquor_store",
	"local_government_office",
	"locality",
	"locksmith",
	"lodging",
	"meal_delivery",
	"meal_takeaway",
	"mosque",
	"movie_rental",
	"movie_theater",
	"moving_company",
	"museum",
	"natural_feature",
	"neighborhood",
	"night_club",
	"other",
	"painter",
	"park",
	"parking",
	"pet_store",
	"pharmacy",
	"physiotherapist",
	"place_of_worship",
	"plumber",
	"point_of_interest",
	"police",
	"political",
	"post_box",
	"post_office",
	"postal_code",
	"postal_code_prefix",
	"postal_code_suffix",
	"postal_town",
	"premise",
	"real_estate_agency",
	"restaurant",
	"roofing_contractor",
	"room",
	"route",
	"rv_park",
	"school",
	"shoe_store",
	"shopping_mall",
	"spa",
	"stadium",
	"storage",
	"store",
	"street_address",
	"street_number",
	"sublocality",
	"sublocality_level_1",
	"sublocality_level_2",
	"sublocality_level_3",
	"sublocality_level_4",
	"sublocality_level_5",
	"subpremise",
	"subway_station",
	"supermarket",
	"synagogue",
	"taxi_stand",
	"train_station",
	"transit_station",
	"travel_agency",
	"veterinary_care",
	"zoo",
}

var placeTypesByName = func() map[string]PlaceType {
	m := make(map[string]PlaceType, len(placeTypeNames))
	for i, name := range placeTypeNames {
		m[name] = PlaceType(i)
	}
	return m
}()

// ParsePlaceType resolves a web-service type name such as "gas_station".
// Unknown names yield PlaceTypeUnknown and false.
func ParsePlaceType(name string) (PlaceType, bool) {
	t, ok := placeTypesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PlaceTypeUnknown, false
	}
	return t, true
}

// Known reports whether t is a code from the taxonomy.
func (t PlaceType) Known() bool {
	return t >= 0 && t < placeTypeCount
}

func (t PlaceType) String() string {
	if !t.Known() {
		return "unknown"
	}
	return placeTypeNames[t]
}
