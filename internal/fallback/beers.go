package fallback

import "hops-cache/pkg/models"

var curated = []models.Beer{
	{
		ID: "fb-1", Name: "Punk IPA", Tagline: "Post Modern Classic. Spiky. Tropical. Hoppy.",
		FirstBrewed: "2007", Description: "Light golden India Pale Ale with grapefruit, pineapple and lychee up front.",
		ABV: 5.4, IBU: 40, FoodPairing: []string{"spicy chicken tikka masala", "grilled pork chop", "carrot cake"},
		Brewery: "BrewDog", Region: "Scotland",
	},
	{
		ID: "fb-2", Name: "Sierra Nevada Pale Ale", Tagline: "Classic American Pale Ale",
		FirstBrewed: "1980", Description: "Cascade hops give a piney, grapefruit aroma over a caramel malt body.",
		ABV: 5.6, IBU: 38, FoodPairing: []string{"burgers", "fish tacos", "aged cheddar"},
		Brewery: "Sierra Nevada", Region: "California",
	},
	{
		ID: "fb-3", Name: "Goose Island IPA", Tagline: "English-style India Pale Ale",
		FirstBrewed: "2000", Description: "Fruity aroma and a dry malt middle finishing with a long hop bitterness.",
		ABV: 5.9, IBU: 55, FoodPairing: []string{"curry", "nachos", "blue cheese"},
		Brewery: "Goose Island", Region: "Illinois",
	},
	{
		ID: "fb-4", Name: "Guinness Draught", Tagline: "Irish Dry Stout",
		FirstBrewed: "1959", Description: "Roasted barley bitterness with a creamy nitrogen head.",
		ABV: 4.2, IBU: 45, FoodPairing: []string{"oysters", "beef and ale pie", "chocolate cake"},
		Brewery: "Guinness", Region: "Ireland",
	},
	{
		ID: "fb-5", Name: "Old Rasputin", Tagline: "Russian Imperial Stout",
		FirstBrewed: "1995", Description: "Rich roasted malt, dark chocolate and a warming finish.",
		ABV: 9.0, IBU: 75, FoodPairing: []string{"smoked brisket", "stilton", "brownies"},
		Brewery: "North Coast", Region: "California",
	},
	{
		ID: "fb-6", Name: "Fuller's London Porter", Tagline: "Smooth Dark Porter",
		FirstBrewed: "1996", Description: "Brown, crystal and chocolate malts for a smooth coffee character.",
		ABV: 5.4, IBU: 37, FoodPairing: []string{"sausages and mash", "mushroom risotto", "tiramisu"},
		Brewery: "Fuller's", Region: "England",
	},
	{
		ID: "fb-7", Name: "Pilsner Urquell", Tagline: "The Original Czech Pilsner",
		FirstBrewed: "1842", Description: "Soft water, Saaz hops and a clean bready malt backbone.",
		ABV: 4.4, IBU: 40, FoodPairing: []string{"roast pork", "fried fish", "pretzels"},
		Brewery: "Plzeňský Prazdroj", Region: "Czech Republic",
	},
	{
		ID: "fb-8", Name: "Augustiner Helles", Tagline: "Munich Lager",
		FirstBrewed: "1928", Description: "Bright, bready and gently hopped pale lager.",
		ABV: 5.2, IBU: 20, FoodPairing: []string{"weisswurst", "salads", "grilled chicken"},
		Brewery: "Augustiner-Bräu", Region: "Bavaria",
	},
	{
		ID: "fb-9", Name: "Weihenstephaner Hefeweissbier", Tagline: "Bavarian Wheat Beer",
		FirstBrewed: "1930", Description: "Banana and clove yeast character with a soft, full body.",
		ABV: 5.4, IBU: 14, FoodPairing: []string{"seafood", "goat cheese", "lemon tart"},
		Brewery: "Weihenstephan", Region: "Bavaria",
	},
	{
		ID: "fb-10", Name: "Hoegaarden", Tagline: "Belgian Witbier",
		FirstBrewed: "1966", Description: "Cloudy wheat beer brewed with coriander and orange peel.",
		ABV: 4.9, IBU: 15, FoodPairing: []string{"mussels", "thai salad", "sorbet"},
		Brewery: "Hoegaarden", Region: "Belgium",
	},
	{
		ID: "fb-11", Name: "Anderson Valley Gose", Tagline: "Briny Sour Ale",
		FirstBrewed: "2014", Description: "Tart and refreshing with a touch of sea salt and coriander.",
		ABV: 4.2, IBU: 10, FoodPairing: []string{"ceviche", "feta salad", "key lime pie"},
		Brewery: "Anderson Valley", Region: "California",
	},
	{
		ID: "fb-12", Name: "Fuller's ESB", Tagline: "Extra Special Bitter",
		FirstBrewed: "1971", Description: "Marmalade, toffee and a firm English hop bite.",
		ABV: 5.9, IBU: 35, FoodPairing: []string{"steak pie", "cheddar", "sticky toffee pudding"},
		Brewery: "Fuller's", Region: "England",
	},
	{
		ID: "fb-13", Name: "Bell's Amber Ale", Tagline: "Toasted Amber Ale",
		FirstBrewed: "1985", Description: "Caramel and toasted malt balanced by citrus hops.",
		ABV: 5.8, IBU: 32, FoodPairing: []string{"pizza", "bbq ribs", "gouda"},
		Brewery: "Bell's", Region: "Michigan",
	},
	{
		ID: "fb-14", Name: "Duvel", Tagline: "Belgian Strong Golden Ale",
		FirstBrewed: "1923", Description: "Dry, effervescent and fruity with a subtle pepper finish.",
		ABV: 8.5, IBU: 32, FoodPairing: []string{"moules frites", "roast chicken", "camembert"},
		Brewery: "Duvel Moortgat", Region: "Belgium",
	},
	{
		ID: "fb-15", Name: "Saison Dupont", Tagline: "Belgian Farmhouse Saison",
		FirstBrewed: "1844", Description: "Spicy, dry and highly carbonated farmhouse ale.",
		ABV: 6.5, IBU: 30, FoodPairing: []string{"roast lamb", "washed rind cheese", "asparagus"},
		Brewery: "Brasserie Dupont", Region: "Belgium",
	},
	{
		ID: "fb-16", Name: "Elysian Space Dust IPA", Tagline: "West Coast India Pale Ale",
		FirstBrewed: "2014", Description: "Citra and Amarillo hops over a bright malt bill.",
		ABV: 8.2, IBU: 73, FoodPairing: []string{"spicy wings", "jerk chicken", "carrot cake"},
		Brewery: "Elysian", Region: "Washington",
	},
}
