package refdata

import "github.com/google/uuid"

// Stable ids for the built-in development catalog. Production deployments
// load the real tables from the reference-data administration service.
var (
	CharacteristicArsonSuitable        = uuid.MustParse("7f6b09b8-7d17-4381-b1e0-0c39c3c3a9b2")
	CharacteristicEnSuite              = uuid.MustParse("86c1defe-ad85-4443-8aa1-a81279c97b57")
	CharacteristicWheelchairDesignated = uuid.MustParse("c2f8c9d7-09c3-46f4-ae2b-0c5ff407dfcb")
	CharacteristicSingleRoom           = uuid.MustParse("b3c1a8f4-8fd3-4bfe-9a34-6a2a15f0d8e1")
	CharacteristicStepFreeAccess       = uuid.MustParse("e730bdf1-122a-4cd4-bfb4-a17b07b17c0a")

	ReasonCancellationWithdrawn = uuid.MustParse("3a5bbc7a-094f-47b4-9295-a0d90b0fcbb0")
	ReasonCancellationError     = uuid.MustParse("0e7576df-908b-4da3-9bb2-533a9d07a2d7")
	ReasonDeparturePlanned      = uuid.MustParse("52b9ae52-9b4c-4b64-85fd-bbedc3b414f4")
	ReasonDepartureRecalled     = uuid.MustParse("f4d00e1c-8bfd-40e9-8241-a7d0f744e737")
	ReasonNonArrivalFailed      = uuid.MustParse("e9184f2e-f409-461e-b149-492a02cb1655")
	ReasonOOSMaintenance        = uuid.MustParse("d33006b7-55d9-4a8e-b722-5e18093dbcdf")
	ReasonOOSIncident           = uuid.MustParse("90a735b5-6bf1-4c9b-a8a5-ecda25bb0ab5")
	ReasonCRPlacementConcern    = uuid.MustParse("1aa41a19-4cf6-4e22-9aeb-0e4e2f3ef1a0")
	ReasonCRRejectedNoGrounds   = uuid.MustParse("84200f3f-4a39-4f2b-b014-d5985967e2ed")

	MoveOnIndependentLiving = uuid.MustParse("9a46cc46-91e6-41b3-8a35-72f9c5e83f59")
	MoveOnSupportedHousing  = uuid.MustParse("1b68a2d1-72d4-4e7e-94ff-a4b8ef0638be")
)

// SeedCatalog returns the built-in development catalog.
func SeedCatalog() *Catalog {
	return NewCatalog(
		[]Characteristic{
			{ID: CharacteristicArsonSuitable, PropertyName: "isArsonSuitable", Scope: ScopePremises},
			{ID: CharacteristicEnSuite, PropertyName: "hasEnSuite", Scope: ScopeRoom},
			{ID: CharacteristicWheelchairDesignated, PropertyName: "isWheelchairDesignated", Scope: ScopeRoom},
			{ID: CharacteristicSingleRoom, PropertyName: "isSingle", Scope: ScopeRoom},
			{ID: CharacteristicStepFreeAccess, PropertyName: "hasStepFreeAccess", Scope: ScopePremises},
		},
		[]Reason{
			{ID: ReasonCancellationWithdrawn, Name: "The placement was withdrawn", Kind: ReasonCancellation},
			{ID: ReasonCancellationError, Name: "Booking made in error", Kind: ReasonCancellation},
			{ID: ReasonDeparturePlanned, Name: "Planned move-on", Kind: ReasonDeparture},
			{ID: ReasonDepartureRecalled, Name: "Recalled to custody", Kind: ReasonDeparture},
			{ID: ReasonNonArrivalFailed, Name: "Failed to arrive", Kind: ReasonNonArrival},
			{ID: ReasonOOSMaintenance, Name: "Planned maintenance", Kind: ReasonOutOfService},
			{ID: ReasonOOSIncident, Name: "Incident damage", Kind: ReasonOutOfService},
			{ID: ReasonCRPlacementConcern, Name: "Concern about placement suitability", Kind: ReasonChangeReq},
			{ID: ReasonCRRejectedNoGrounds, Name: "Insufficient grounds", Kind: ReasonCRRejection},
		},
		[]MoveOnCategory{
			{ID: MoveOnIndependentLiving, Name: "Independent living"},
			{ID: MoveOnSupportedHousing, Name: "Supported housing"},
		},
	)
}
