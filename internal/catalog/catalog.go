// Package catalog holds the reference vocabularies the onboarding forms are
// validated against: vendor categories, document types, entity types, Indian
// states, and the bucketed ranges used on the registration form. These are
// data, not workflow rules — the lists can grow without touching the state
// machine.
package catalog

// VendorCategories is the fixed vocabulary for the service-profile multi-select.
var VendorCategories = []string{
	"catering",
	"decoration",
	"photography",
	"videography",
	"sound_and_lighting",
	"venue",
	"entertainment",
	"anchoring",
	"makeup_and_styling",
	"transport",
	"security",
	"housekeeping",
	"tent_and_furniture",
	"florist",
	"invitation_and_printing",
	"gifting",
	"other",
}

// DocumentTypes lists every document kind a vendor may upload as evidence.
var DocumentTypes = []string{
	"pan_card",
	"gst_certificate",
	"msme_certificate",
	"incorporation_certificate",
	"partnership_deed",
	"llp_agreement",
	"trade_license",
	"fssai_license",
	"fire_safety_certificate",
	"pollution_certificate",
	"shop_establishment",
	"cancelled_cheque",
	"bank_letter",
	"liability_insurance",
	"company_profile",
	"portfolio",
	"price_list",
	"reference_letter",
	"other",
}

// EntityTypes enumerates the legal structures a vendor business may have.
var EntityTypes = []string{
	"sole_proprietor",
	"partnership",
	"llp",
	"opc",
	"private_limited",
	"public_limited",
	"huf",
	"trust",
	"society",
	"other",
}

// IndianStates is used to validate address and service-area state fields.
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal", "Andaman and Nicobar Islands", "Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu", "Delhi", "Jammu and Kashmir",
	"Ladakh", "Lakshadweep", "Puducherry",
}

// EmployeeCountBuckets and TurnoverBuckets back the range selects on the form.
var EmployeeCountBuckets = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

var TurnoverBuckets = []string{
	"under_10_lakh", "10_50_lakh", "50_lakh_1_crore", "1_5_crore", "above_5_crore",
}

// PricingTiers classifies vendors for lead matching.
var PricingTiers = []string{"budget", "standard", "premium", "luxury"}

// AcceptedMimeTypes is the whitelist for document uploads.
var AcceptedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IsVendorCategory(v string) bool     { return contains(VendorCategories, v) }
func IsDocumentType(v string) bool       { return contains(DocumentTypes, v) }
func IsEntityType(v string) bool         { return contains(EntityTypes, v) }
func IsIndianState(v string) bool        { return contains(IndianStates, v) }
func IsEmployeeCountBucket(v string) bool { return contains(EmployeeCountBuckets, v) }
func IsTurnoverBucket(v string) bool     { return contains(TurnoverBuckets, v) }
func IsPricingTier(v string) bool        { return contains(PricingTiers, v) }
func IsAcceptedMimeType(v string) bool   { return contains(AcceptedMimeTypes, v) }
