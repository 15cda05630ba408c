package content

import "dubexpo/internal/model"

// Static page content keyed by language tag. French is the canonical copy,
// English mirrors it; pack price values are identical across languages.

const DefaultLanguage = "fr"

type Testimonial struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Quote        string `json:"quote"`
	Partnerships int    `json:"partnerships"`
	ROI          string `json:"roi"`
	SavedMonths  int    `json:"savedMonths"`
}

type AgendaDay struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Content struct {
	Language     string        `json:"language"`
	Headline     string        `json:"headline"`
	Subtitle     string        `json:"subtitle"`
	Packs        []model.Pack  `json:"packs"`
	Testimonials []Testimonial `json:"testimonials"`
	Agenda       []AgendaDay   `json:"agenda"`
	FAQs         []FAQ         `json:"faqs"`
}

var byLanguage = map[string]Content{
	"fr": {
		Language: "fr",
		Headline: "Dubai Business Expedition",
		Subtitle: "6 jours pour implanter votre business aux Émirats.",
		Packs: []model.Pack{
			{
				Variant:     model.PackEssentiel,
				Title:       "Découverte",
				Price:       "2 500€",
				PriceValue:  2500,
				Description: "L'essentiel pour comprendre l'écosystème local.",
				Features: []string{
					"Accès salon Gulfood",
					"Networking Event Standard",
					"Visite guidée Expo City",
					"Support logistique de base",
					"Hôtel 4* (4 nuits)",
				},
			},
			{
				Variant:     model.PackPremium,
				Title:       "Business Class",
				Price:       "4 500€",
				PriceValue:  4500,
				Description: "Pour les entrepreneurs prêts à signer des contrats.",
				Features: []string{
					"Tout du pack Découverte",
					"Dîner de Gala Ambassade",
					"3 RDV B2B qualifiés",
					"Atelier \"Doing Business in Dubai\"",
					"Hôtel 5* (6 nuits)",
				},
			},
			{
				Variant:     model.PackElite,
				Title:       "Ambassadeur",
				Price:       "8 000€",
				PriceValue:  8000,
				Description: "L'expérience diplomatique ultime pour dirigeants.",
				Features: []string{
					"Tout du pack Premium",
					"Accès Lounge VIP",
					"Rencontre privée avec l'Ambassadeur",
					"Chauffeur privé 24/7",
					"Mise en relation Gouvernementale",
					"Suite Palace (7 nuits)",
				},
			},
		},
		Testimonials: []Testimonial{
			{
				Name:         "Awa Koné",
				Role:         "CEO, Tech Africa",
				Quote:        "Cette expédition a complètement transformé ma vision du business à Dubai. En 6 jours, j'ai signé plus de partenariats qu'en 6 mois.",
				Partnerships: 7,
				ROI:          "400%",
				SavedMonths:  18,
			},
			{
				Name:         "Jean-Marc Diallo",
				Role:         "Directeur Export, AgriCorp",
				Quote:        "Le badge 'Ambassade' ouvre des portes qui restent fermées aux touristes d'affaires classiques. Un investissement rentabilisé dès le 3ème jour.",
				Partnerships: 4,
				ROI:          "250%",
				SavedMonths:  12,
			},
		},
		Agenda: []AgendaDay{
			{Day: "Jour 1", Title: "Arrivée & Installation", Description: "Accueil VIP à l'aéroport, transfert et briefing de la délégation.", Time: "Journée"},
			{Day: "Jour 2", Title: "Salon Gulfood", Description: "Accès au plus grand salon agroalimentaire du monde.", Time: "09:00 - 18:00"},
			{Day: "Jour 3", Title: "Rendez-vous B2B", Description: "Rencontres qualifiées avec des partenaires locaux.", Time: "10:00 - 17:00"},
			{Day: "Jour 4", Title: "Dîner de Gala", Description: "Soirée de networking à l'Ambassade.", Time: "19:00 - 23:00"},
		},
		FAQs: []FAQ{
			{Question: "Le visa est-il inclus ?", Answer: "Une assistance visa est proposée dans tous les packs, cochez l'option lors de l'inscription."},
			{Question: "Puis-je payer en plusieurs fois ?", Answer: "Oui, un échéancier est possible après validation de votre inscription."},
		},
	},
	"en": {
		Language: "en",
		Headline: "Dubai Business Expedition",
		Subtitle: "6 days to establish your business in the Emirates.",
		Packs: []model.Pack{
			{
				Variant:     model.PackEssentiel,
				Title:       "Discovery",
				Price:       "€2,500",
				PriceValue:  2500,
				Description: "The essentials to understand the local ecosystem.",
				Features: []string{
					"Gulfood exhibition access",
					"Standard networking event",
					"Expo City guided tour",
					"Basic logistics support",
					"4* hotel (4 nights)",
				},
			},
			{
				Variant:     model.PackPremium,
				Title:       "Business Class",
				Price:       "€4,500",
				PriceValue:  4500,
				Description: "For entrepreneurs ready to sign contracts.",
				Features: []string{
					"Everything in Discovery",
					"Embassy gala dinner",
					"3 qualified B2B meetings",
					"\"Doing Business in Dubai\" workshop",
					"5* hotel (6 nights)",
				},
			},
			{
				Variant:     model.PackElite,
				Title:       "Ambassador",
				Price:       "€8,000",
				PriceValue:  8000,
				Description: "The ultimate diplomatic experience for executives.",
				Features: []string{
					"Everything in Premium",
					"VIP lounge access",
					"Private meeting with the Ambassador",
					"24/7 private driver",
					"Government-level introductions",
					"Palace suite (7 nights)",
				},
			},
		},
		Testimonials: []Testimonial{
			{
				Name:         "Awa Koné",
				Role:         "CEO, Tech Africa",
				Quote:        "This expedition completely transformed my vision of doing business in Dubai. In 6 days I signed more partnerships than in 6 months.",
				Partnerships: 7,
				ROI:          "400%",
				SavedMonths:  18,
			},
			{
				Name:         "Jean-Marc Diallo",
				Role:         "Export Director, AgriCorp",
				Quote:        "The 'Embassy' badge opens doors that stay closed to regular business tourists. The investment paid for itself by day 3.",
				Partnerships: 4,
				ROI:          "250%",
				SavedMonths:  12,
			},
		},
		Agenda: []AgendaDay{
			{Day: "Day 1", Title: "Arrival & Check-in", Description: "VIP airport welcome, transfer and delegation briefing.", Time: "All day"},
			{Day: "Day 2", Title: "Gulfood Exhibition", Description: "Access to the world's largest food industry exhibition.", Time: "09:00 - 18:00"},
			{Day: "Day 3", Title: "B2B Meetings", Description: "Qualified meetings with local partners.", Time: "10:00 - 17:00"},
			{Day: "Day 4", Title: "Gala Dinner", Description: "Networking evening at the Embassy.", Time: "19:00 - 23:00"},
		},
		FAQs: []FAQ{
			{Question: "Is the visa included?", Answer: "Visa assistance is available with every pack, tick the option when registering."},
			{Question: "Can I pay in installments?", Answer: "Yes, a payment schedule is possible once your registration is approved."},
		},
	},
}

// ForLanguage returns the content tree for lang, falling back to French.
func ForLanguage(lang string) Content {
	if c, ok := byLanguage[lang]; ok {
		return c
	}
	return byLanguage[DefaultLanguage]
}

// Languages lists the supported language tags.
func Languages() []string {
	return []string{"fr", "en"}
}

// PackPrice resolves a pack variant to its numeric price value. Unknown or
// empty variants contribute zero to revenue aggregates.
func PackPrice(variant string) int {
	for _, p := range byLanguage[DefaultLanguage].Packs {
		if p.Variant == variant {
			return p.PriceValue
		}
	}
	return 0
}
