package parser

// Profile labels as they appear in the tab panel, trailing colon included.
const (
	LabelTaxID                 = "საიდენტიფიკაციო კოდი:"
	LabelLegalForm             = "სამართლებრივი ფორმა:"
	LabelRegistrationNumber    = "რეგისტრაციის ნომერი:"
	LabelRegistrationDate      = "რეგისტრაციის თარიღი:"
	LabelRegistrationAuthority = "მარეგისტრ. ორგანო:"
	LabelStatus                = "სტატუსი:"
	LabelWorkHours             = "სამუშაო საათები:"
	LabelVATPayer              = "დღგ-ს გადამხდელი:"
	LabelLastUpdated           = "ბოლო განახლების თარიღი:"

	// The site uses both spellings.
	LabelLegalAddressTypo = "იურდიული მისამართი:"
	LabelLegalAddress     = "იურიდიული მისამართი:"

	LabelCategories        = "საქმიანობის კატეგორიები:"
	LabelServiceCategories = "საქმიანობის სფერო:"
	LabelTrademarks        = "სავაჭრო მარკები:"
	LabelBrands            = "ბრენდები:"
	LabelNACE2004          = "ეროვნული კლასიფიკატორები (NACE 2004):"
	LabelNACE2016          = "ეროვნული კლასიფიკატორები (NACE 2016):"

	LabelBranches       = "ფილიალები:"
	LabelServiceCenters = "სერვის-ცენტრები:"
	LabelTenders        = "ტენდერები:"
	LabelTendersHistory = "ტენდერების ისტორია:"

	LabelEmployeeCount       = "თანამშრომელთა რ-ბა:"
	LabelTemporaryEmployees  = "დროებითი თანამშრომლები:"
	LabelBranchesCount       = "ფილიალების რ-ბა:"
	LabelServiceCentersCount = "სერვის-ცენტრების რ-ბა:"
	LabelComputers           = "კომპიუტერების რ-ბა:"
	LabelAvgEmployeeAge      = "თანამშრომლების საშუალო ასაკი:"
	LabelGenderMale          = "გენდერული განაწილება (კაცი):"
	LabelGenderFemale        = "გენდერული განაწილება (ქალი):"

	LabelCompanySize         = "კომპანიის ზომა:"
	LabelAuthorizedCapital   = "საწესდებო კაპიტალი:"
	LabelTurnoverRange       = "ბრუნვის დიაპაზონი:"
	LabelManagementAvgSalary = "მენეჯმენტის საშუალო ხელფასი:"
	LabelMiddleAvgSalary     = "შუა რგოლის თანამშ. საშ. ხელფასი:"
	LabelLowerAvgSalary      = "ქვედა რგოლის თანამშ. საშ. ხელფასი:"
	LabelCorporateVehicles   = "კორპორატიული ავტომობილები:"

	LabelParentCompanies     = "მშობელი კომპანიები:"
	LabelSubsidiaryCompanies = "შვილობილი კომპანიები:"
	LabelFounders            = "დამფუძნებლები:"
	LabelCertifications      = "სერტიფიკატები:"

	LabelSocialResponsibility     = "სოციალური პასუხისმგებლობა:"
	LabelMobileService            = "მობილური კავშირის მომსახურება:"
	LabelInternetService          = "ინტერნეტ კავშირის მომსახურება:"
	LabelOilCompanies             = "მომსახურე ნავთობკომპანიები:"
	LabelBanks                    = "ბანკები:"
	LabelInsurance                = "დაზღვევა:"
	LabelExport                   = "ექსპორტი:"
	LabelImport                   = "იმპორტი:"
	LabelLocalShipments           = "ადგილობრივი გადაზიდვები:"
	LabelInternationalShipments   = "საერთაშორისო გადაზიდვები:"
	LabelLocalPartners            = "ადგილობრივი პარტნიორები:"
	LabelForeignPartners          = "უცხოელი პარტნიორები:"
	LabelLocalSuppliers           = "ადგილობრივი მომწოდებლები:"
	LabelForeignSuppliers         = "უცხოელი მომწოდებლები:"
	LabelLocalDistributors        = "ადგილობრივი დისტრიბუტორები:"
	LabelLocalDealers             = "ადგილობრივი დილერები:"
	LabelAuditService             = "აუდიტორული მომსახურება:"
	LabelLegalService             = "იურიდიული მომსახურება:"
	LabelAccountingService        = "საბუღალტრო მომსახურება:"
	LabelConsultingService        = "საკონსულტაციო მომსახურება:"
	LabelAdvertisingService       = "სარეკლამო კომპანიების მომსახურება:"
	LabelCourierService           = "საკურიერო მომსახურება:"
	LabelPropertyValuationService = "ქონების საშემფასებლო მომსახურება:"
)

// Contact-box row kinds, read from the row icon's data-title attribute.
const (
	contactAddress = "მისამართი"
	contactPhone   = "ტელეფონი"
	contactEmail   = "იმეილი"
	contactWebsite = "ვებ-საიტი"
)

const (
	noLogoPlaceholder = "არ არის ლოგო"
	personalIDPrefix  = "პირადი ნომერი:"
	regionMarker      = "რაიონი"
	vatYes            = "არის"
	vatNo             = "არ არის"
	vehiclesNone      = "არ აქვს"
)
