package shipping

import "github.com/angelmondragon/advanced-shipping/pkg/types"

func date(s string) types.Date {
	return types.MustParseDate(s)
}

func cats(ids ...CategoryID) CategorySet {
	return CategorySet(ids)
}

func cart(products ...CategorySet) CartCategories {
	return CartCategories(products)
}
