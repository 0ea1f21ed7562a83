package catalog

// Embedded sample data served when the configured source cannot be loaded, so
// the storefront never comes up empty. The substitution is all-or-nothing:
// products and testimonials fall back together.

func FallbackProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "3D Center Carpet",
			Price:       300,
			Category:    "3d",
			Size:        "140x200 cm",
			Description: "Soft and elegant 3D design for your living room. Perfect for modern homes.",
			Rating:      5,
			Reviews:     128,
			Stock:       15,
			Colors:      []string{"#8B4513", "#D2691E", "#F5DEB3"},
			Badges:      []string{"bestseller", "3d"},
			Image:       "assets/images/3d/3d1.1.jpg",
		},
		{
			ID:          2,
			Name:        "Fluffy Cloud Carpet",
			Price:       450,
			Category:    "fluffy",
			Size:        "200x300 cm",
			Description: "Ultra-soft fluffy carpet that feels like walking on clouds. Perfect for bedrooms.",
			Rating:      4.5,
			Reviews:     89,
			Stock:       8,
			Colors:      []string{"#FFFFFF", "#F5F5F5", "#E8E8E8"},
			Badges:      []string{"new", "fluffy"},
			Image:       "assets/images/fluffy/fluffy1.jpg",
		},
		{
			ID:          3,
			Name:        "3D Wave Carpet",
			Price:       380,
			Category:    "3d",
			Size:        "230x160 cm",
			Description: "Modern wave design that adds depth and style to any room. Water-resistant material.",
			Rating:      4.8,
			Reviews:     156,
			Stock:       12,
			Colors:      []string{"#2C3E50", "#34495E", "#5D6D7E"},
			Badges:      []string{"bestseller", "3d"},
			Image:       "assets/images/3d/3d2.jpg",
		},
	}
}

func FallbackTestimonials() []Testimonial {
	return []Testimonial{
		{
			ID:       1,
			Name:     "Akua Mensah",
			Location: "East Legon, Accra",
			Rating:   5,
			Text:     "Best carpet shop in Accra! The quality is amazing and the customer service is excellent. Highly recommend!",
			Product:  "3D Center Carpet",
			Date:     "2024-01-15",
			Avatar:   "AM",
		},
	}
}
