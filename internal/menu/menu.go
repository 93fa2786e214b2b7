package menu

// Item — пункт меню консоли. Группа — пункт с дочерними пунктами.
type Item struct {
	Key       string
	Title     string
	Feature   string // фича тарифа, без которой пункт скрыт; пусто — всегда
	SuperOnly bool   // только для супер-админа
	Items     []Item
}

// Filter возвращает отфильтрованную копию дерева. Исходные пункты не меняются.
// Группа остаётся, если проходит keep и у неё остался хотя бы один дочерний пункт.
func Filter(items []Item, keep func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !keep(it) {
			continue
		}
		cp := it
		if len(it.Items) > 0 {
			cp.Items = Filter(it.Items, keep)
			if len(cp.Items) == 0 {
				continue
			}
		}
		out = append(out, cp)
	}
	return out
}

// Leaves — все конечные пункты в порядке обхода.
func Leaves(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if len(it.Items) == 0 {
			out = append(out, it)
			continue
		}
		out = append(out, Leaves(it.Items)...)
	}
	return out
}

// FindByTitle ищет конечный пункт по подписи кнопки.
func FindByTitle(items []Item, title string) (Item, bool) {
	for _, it := range Leaves(items) {
		if it.Title == title {
			return it, true
		}
	}
	return Item{}, false
}

// Has — есть ли конечный пункт с ключом.
func Has(items []Item, key string) bool {
	for _, it := range Leaves(items) {
		if it.Key == key {
			return true
		}
	}
	return false
}

// ForAccess — предикат по фичам тарифа и роли.
func ForAccess(features map[string]bool, superAdmin bool) func(Item) bool {
	return func(it Item) bool {
		if it.SuperOnly && !superAdmin {
			return false
		}
		return it.Feature == "" || features[it.Feature]
	}
}

const (
	KeyEmployees    = "employees"
	KeySubscription = "subscription"
	KeyUpgrade      = "upgrade"
	KeyPricing      = "pricing"
	KeyPricingXLSX  = "pricing_xlsx"
	KeyCompanies    = "companies"
	KeyAdminPlans   = "admin_plans"
	KeyTheme        = "theme"
	KeyLogout       = "logout"
)

// Console — полное меню консоли. Не изменяется; для показа всегда фильтруется копия.
var Console = []Item{
	{Key: "people", Title: "Сотрудники", Feature: "employees", Items: []Item{
		{Key: KeyEmployees, Title: "Статусы сотрудников", Feature: "employees"},
	}},
	{Key: "billing", Title: "Оплата", Items: []Item{
		{Key: KeySubscription, Title: "Моя подписка"},
		{Key: KeyUpgrade, Title: "Сменить тариф"},
		{Key: KeyPricing, Title: "Тарифы"},
		{Key: KeyPricingXLSX, Title: "Прайс в Excel", Feature: "reports"},
	}},
	{Key: "admin", Title: "Администрирование", SuperOnly: true, Items: []Item{
		{Key: KeyCompanies, Title: "Компании", SuperOnly: true},
		{Key: KeyAdminPlans, Title: "Все тарифы", SuperOnly: true},
	}},
	{Key: "settings", Title: "Настройки", Items: []Item{
		{Key: KeyTheme, Title: "Тема оформления"},
		{Key: KeyLogout, Title: "Выйти"},
	}},
}
