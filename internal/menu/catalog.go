package menu

import "github.com/fayzdev/fayz-go/internal/storage"

// defaultCatalog seeds an empty database on first start so the site is
// never served without a menu. Operators replace it through the admin
// upsert endpoint.
var defaultCatalog = []*storage.MenuItem{
	{Name: "Samsa", Category: "starters", Price: 3.50, Description: "Flaky pastry stuffed with spiced lamb and onion", Available: true, SortOrder: 1},
	{Name: "Caesar Salad", Category: "starters", Price: 6.50, Description: "Romaine, parmesan, croutons and house caesar dressing", Available: true, SortOrder: 2},
	{Name: "Achichuk Salad", Category: "starters", Price: 4.00, Description: "Fresh tomato, onion and basil salad", Available: true, SortOrder: 3},

	{Name: "Plov", Category: "mains", Price: 9.50, Description: "Uzbek rice pilaf with lamb, carrots and chickpeas", Available: true, SortOrder: 1},
	{Name: "Lagman", Category: "mains", Price: 8.50, Description: "Hand-pulled noodles in a rich beef and vegetable broth", Available: true, SortOrder: 2},
	{Name: "Manti", Category: "mains", Price: 7.50, Description: "Steamed dumplings with lamb and pumpkin", Available: true, SortOrder: 3},
	{Name: "Shashlik", Category: "mains", Price: 10.50, Description: "Charcoal-grilled lamb skewers with pickled onions", Available: true, SortOrder: 4},
	{Name: "Margherita Pizza", Category: "mains", Price: 12.00, Description: "Tomato, mozzarella and fresh basil", Available: true, SortOrder: 5},

	{Name: "Tiramisu", Category: "desserts", Price: 5.00, Description: "Espresso-soaked ladyfingers with mascarpone cream", Available: true, SortOrder: 1},
	{Name: "Halva", Category: "desserts", Price: 3.00, Description: "Traditional sesame halva with walnuts", Available: true, SortOrder: 2},

	{Name: "Green Tea", Category: "drinks", Price: 1.50, Description: "Pot of loose-leaf green tea", Available: true, SortOrder: 1},
	{Name: "Lemonade", Category: "drinks", Price: 2.50, Description: "House-made lemonade with mint", Available: true, SortOrder: 2},
	{Name: "Ayran", Category: "drinks", Price: 2.00, Description: "Chilled salted yogurt drink", Available: true, SortOrder: 3},
}
