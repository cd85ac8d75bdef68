package services

import (
	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/shopspring/decimal"
)

const serviceArea = "Available in your area"

func seedService(id int, name, icon, description string, category models.Category, rating float64,
	amount int64, duration string, features, included []string) models.Service {
	price := decimal.NewFromInt(amount)
	return models.Service{
		ID:          id,
		Name:        name,
		Icon:        icon,
		Description: description,
		Category:    category,
		Rating:      rating,
		Amount:      price,
		Currency:    "INR",
		Price:       utils.FormatPrice(price),
		Duration:    duration,
		Location:    serviceArea,
		Features:    features,
		Services:    included,
	}
}

// DefaultCatalog returns the seeded service catalog.
func DefaultCatalog() []models.Service {
	return []models.Service{
		seedService(1, "Plumbing", "🔧", "Expert plumbing services for all your home needs",
			models.CategoryRepair, 4.8, 2500, "1-3 hours",
			[]string{"24/7 Emergency Service", "Licensed & Insured", "Free Estimates", "Warranty Included", "Same Day Service Available"},
			[]string{"Pipe Repair & Replacement", "Drain Cleaning", "Water Heater Installation", "Fixture Installation", "Leak Detection & Repair", "Sewer Line Services"}),
		seedService(2, "Electrician", "💡", "Professional electrical work and installations",
			models.CategoryRepair, 4.9, 3000, "1-4 hours",
			[]string{"Licensed Electricians", "Safety Certified", "Emergency Service", "Code Compliance", "Warranty Coverage"},
			[]string{"Electrical Repairs", "Wiring Installation", "Circuit Breaker Service", "Lighting Installation", "Electrical Panel Upgrades", "Safety Inspections"}),
		seedService(3, "AC Repair", "❄️", "Professional AC installation and repair services",
			models.CategoryRepair, 4.7, 4000, "2-4 hours",
			[]string{"Certified Technicians", "Same Day Service", "Warranty Coverage", "Free Diagnostics", "Emergency Repairs"},
			[]string{"AC Installation", "AC Repair & Maintenance", "Refrigerant Recharge", "Duct Cleaning", "Thermostat Installation", "Emergency AC Service"}),
		seedService(4, "Cleaning", "🧹", "Professional home and office cleaning services",
			models.CategoryCleaning, 4.6, 2000, "2-6 hours",
			[]string{"Eco-friendly Products", "Trained Staff", "Flexible Scheduling", "Satisfaction Guaranteed", "Regular Maintenance"},
			[]string{"Deep House Cleaning", "Kitchen Deep Clean", "Bathroom Sanitization", "Carpet Cleaning", "Window Cleaning", "Move-in/Move-out Cleaning"}),
		seedService(5, "Carpentry", "🪚", "Expert carpentry and woodwork services",
			models.CategoryRepair, 4.8, 3500, "2-8 hours",
			[]string{"Skilled Craftsmen", "Custom Work Available", "Quality Materials", "Warranty Included", "Free Consultations"},
			[]string{"Furniture Assembly", "Cabinet Installation", "Door & Window Repair", "Custom Woodwork", "Deck & Fence Building", "Wood Repairs"}),
		seedService(6, "Salon at Home", "💇‍♀️", "Professional beauty and wellness services at home",
			models.CategoryBeauty, 4.9, 1500, "1-3 hours",
			[]string{"Licensed Beauticians", "Hygienic Equipment", "Premium Products", "Flexible Timing", "Satisfaction Guaranteed"},
			[]string{"Hair Cut & Styling", "Facial Treatments", "Manicure & Pedicure", "Waxing Services", "Bridal Makeup", "Spa Treatments"}),
		seedService(7, "Appliance Repair", "⚙️", "Professional appliance repair and maintenance",
			models.CategoryRepair, 4.7, 2750, "1-3 hours",
			[]string{"Certified Technicians", "Genuine Parts", "Warranty Coverage", "Same Day Service", "Emergency Repairs"},
			[]string{"Refrigerator Repair", "Washing Machine Service", "Microwave Repair", "Dishwasher Service", "Oven & Stove Repair", "Small Appliance Repair"}),
		seedService(8, "Pest Control", "🐜", "Effective pest control and prevention services",
			models.CategoryOutdoor, 4.8, 4500, "2-4 hours",
			[]string{"Safe & Effective", "Licensed Technicians", "Follow-up Service", "Eco-friendly Options", "Guaranteed Results"},
			[]string{"General Pest Control", "Termite Treatment", "Rodent Control", "Cockroach Treatment", "Bed Bug Treatment", "Preventive Services"}),
		seedService(9, "Painting", "🎨", "Professional interior and exterior painting services",
			models.CategoryOutdoor, 4.6, 10000, "1-7 days",
			[]string{"Experienced Painters", "Quality Materials", "Clean Work Area", "Warranty Coverage", "Free Estimates"},
			[]string{"Interior Painting", "Exterior Painting", "Wall Texturing", "Cabinet Painting", "Deck Staining", "Color Consultation"}),
		seedService(10, "Landscaping", "🌿", "Professional landscaping and garden maintenance",
			models.CategoryOutdoor, 4.7, 7500, "1-5 days",
			[]string{"Expert Designers", "Quality Plants", "Maintenance Plans", "Seasonal Care", "Warranty Coverage"},
			[]string{"Garden Design", "Lawn Maintenance", "Tree Planting", "Irrigation Systems", "Garden Cleanup", "Seasonal Planting"}),
		seedService(11, "Moving Services", "📦", "Professional moving and relocation services",
			models.CategoryMoving, 4.8, 5000, "4-8 hours",
			[]string{"Licensed & Insured", "Professional Packers", "Safe Transportation", "Assembly Service", "Storage Solutions"},
			[]string{"Residential Moving", "Commercial Moving", "Packing Services", "Furniture Assembly", "Storage Solutions", "International Moving"}),
		seedService(12, "Security Installation", "🔒", "Professional security system installation",
			models.CategoryRepair, 4.9, 6000, "2-6 hours",
			[]string{"Certified Installers", "Latest Technology", "24/7 Monitoring", "Warranty Coverage", "Free Consultation"},
			[]string{"CCTV Installation", "Alarm Systems", "Access Control", "Smart Home Security", "Video Doorbells", "Security Maintenance"}),
	}
}

func seedProvider(id int64, name, avatar string, rating float64, reviews int, amount int64, years int,
	location string, available bool, specialties []string, response string, languages []string, serviceIDs ...int) models.Provider {
	price := decimal.NewFromInt(amount)
	return models.Provider{
		ID:              id,
		Name:            name,
		Avatar:          avatar,
		Rating:          rating,
		Reviews:         reviews,
		Amount:          price,
		Price:           utils.FormatPrice(price),
		ExperienceYears: years,
		Location:        location,
		Verified:        true,
		Available:       available,
		Specialties:     specialties,
		ResponseTime:    response,
		Languages:       languages,
		ServiceIDs:      serviceIDs,
	}
}

// DefaultProviders returns the seeded provider directory.
func DefaultProviders() []models.Provider {
	return []models.Provider{
		seedProvider(1, "Rajesh Kumar", "👨‍🔧", 4.9, 127, 2500, 8, "Mumbai Central", true,
			[]string{"Pipe Repair", "Drain Cleaning", "Water Heater"}, "15 mins",
			[]string{"Hindi", "English", "Marathi"}, 1, 7),
		seedProvider(2, "Amit Patel", "👨‍🔧", 4.7, 89, 2200, 5, "Andheri West", true,
			[]string{"AC Installation", "Electrical Work", "Plumbing"}, "20 mins",
			[]string{"Hindi", "English"}, 1, 2, 3),
		seedProvider(3, "Priya Sharma", "👩‍🔧", 4.8, 156, 2800, 12, "Bandra East", true,
			[]string{"Kitchen Plumbing", "Bathroom Fitting", "Leak Repair"}, "10 mins",
			[]string{"Hindi", "English", "Gujarati"}, 1, 4),
		seedProvider(4, "Suresh Reddy", "👨‍🔧", 4.5, 67, 1900, 3, "Thane West", false,
			[]string{"Basic Plumbing", "Fixture Installation"}, "30 mins",
			[]string{"Hindi", "Telugu"}, 1, 5),
		seedProvider(5, "Anita Desai", "👩‍🎨", 4.9, 203, 1500, 10, "Powai", true,
			[]string{"Bridal Makeup", "Hair Styling", "Spa Treatments"}, "25 mins",
			[]string{"Hindi", "English", "Marathi"}, 6),
		seedProvider(6, "Vikram Singh", "👷", 4.6, 98, 5000, 7, "Navi Mumbai", true,
			[]string{"Residential Moving", "Packing", "Painting"}, "40 mins",
			[]string{"Hindi", "Punjabi", "English"}, 8, 9, 10, 11, 12),
	}
}
