package matching

import "github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"

// testDoctors is the shared directory snapshot: three eligible doctors plus
// one flagged and one pending entry that must never surface.
func testDoctors() []directory.Doctor {
	return []directory.Doctor{
		{
			ID: 1, Name: "Dr. Sara Hale",
			City: "Boston", State: "Massachusetts", Country: "USA",
			ConsultationFee:   150,
			Specializations:   []string{directory.SpecCardiology},
			InsuranceAccepted: []string{"Aetna", "Blue Cross Blue Shield"},
			AccountStatus:     directory.AccountStatusActive,
		},
		{
			ID: 2, Name: "Dr. Omar Reyes",
			City: "Chicago", State: "Illinois", Country: "USA",
			ConsultationFee:   90,
			Specializations:   []string{directory.SpecDermatology},
			InsuranceAccepted: []string{"Cigna"},
			AccountStatus:     directory.AccountStatusActive,
		},
		{
			ID: 3, Name: "Dr. Lena Fischer",
			City: "Boston", State: "Massachusetts", Country: "USA",
			ConsultationFee:   120,
			Specializations:   []string{directory.SpecGeneralMedicine},
			InsuranceAccepted: []string{"Aetna"},
			AccountStatus:     directory.AccountStatusActive,
		},
		{
			ID: 4, Name: "Dr. Flagged",
			City: "Boston", State: "Massachusetts", Country: "USA",
			Specializations:   []string{directory.SpecCardiology},
			InsuranceAccepted: []string{"Aetna"},
			AccountStatus:     directory.AccountStatusActive,
			AdminFlagged:      true,
		},
		{
			ID: 5, Name: "Dr. Pending",
			City: "Boston", State: "Massachusetts", Country: "USA",
			Specializations:   []string{directory.SpecCardiology},
			InsuranceAccepted: []string{"Aetna"},
			AccountStatus:     directory.AccountStatusPending,
		},
	}
}
