package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range Leaves(items) {
		out = append(out, it.Key)
	}
	return out
}

func TestFilter_ByFeatureAndRole(t *testing.T) {
	got := Filter(Console, ForAccess(map[string]bool{"employees": true}, false))
	assert.Equal(t, []string{KeyEmployees, KeySubscription, KeyUpgrade, KeyPricing, KeyTheme, KeyLogout}, keys(got))

	got = Filter(Console, ForAccess(map[string]bool{"reports": true}, true))
	assert.Equal(t, []string{KeySubscription, KeyUpgrade, KeyPricing, KeyPricingXLSX, KeyCompanies, KeyAdminPlans, KeyTheme, KeyLogout}, keys(got))
}

func TestFilter_EmptyGroupsArePruned(t *testing.T) {
	tree := []Item{
		{Key: "g", Title: "G", Items: []Item{{Key: "a", Feature: "x"}}},
		{Key: "leaf", Title: "Leaf"},
	}
	got := Filter(tree, ForAccess(nil, false))
	require.Len(t, got, 1)
	assert.Equal(t, "leaf", got[0].Key)
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	tree := []Item{
		{Key: "g", Items: []Item{{Key: "a", Feature: "x"}, {Key: "b", Feature: "y"}}},
	}

	narrow := Filter(tree, ForAccess(map[string]bool{"x": true}, false))
	assert.Equal(t, []string{"a"}, keys(narrow))

	// второй вызов с другим набором фич не должен видеть следы первого
	wide := Filter(tree, ForAccess(map[string]bool{"x": true, "y": true}, false))
	assert.Equal(t, []string{"a", "b"}, keys(wide))

	assert.Len(t, tree[0].Items, 2)

	// изменение результата не затрагивает исходное дерево
	wide[0].Items[0].Title = "changed"
	assert.Empty(t, tree[0].Items[0].Title)
}

func TestFilter_ConsoleStableAcrossCalls(t *testing.T) {
	before := keys(Console)
	_ = Filter(Console, func(Item) bool { return false })
	_ = Filter(Console, ForAccess(map[string]bool{"employees": true}, false))
	assert.Equal(t, before, keys(Console))
}

func TestFindByTitle(t *testing.T) {
	it, ok := FindByTitle(Console, "Сменить тариф")
	require.True(t, ok)
	assert.Equal(t, KeyUpgrade, it.Key)

	_, ok = FindByTitle(Console, "Оплата")
	assert.False(t, ok, "группа не является кнопкой")
}

func TestHas(t *testing.T) {
	basic := Filter(Console, ForAccess(map[string]bool{}, false))
	assert.True(t, Has(basic, KeySubscription))
	assert.False(t, Has(basic, KeyPricingXLSX))

	withReports := Filter(Console, ForAccess(map[string]bool{"reports": true}, false))
	assert.True(t, Has(withReports, KeyPricingXLSX))
}
