package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klabast/wb-services/programacao/internal/kv"
)

func TestNewRegistryHasDefaults(t *testing.T) {
	r := NewRegistry(nil)

	require.Len(t, r.Leaders(), len(defaultLeaders))
	require.Equal(t, []string{"Grupo Litoral", "Grupo Norte", "Todos os Grupos"}, r.Groups())

	locations := r.Locations()
	require.Len(t, locations, len(defaultLocations))
	require.Equal(t, "Casa de Vitória", locations[0].Name)
	require.Equal(t, "Zoom", locations[len(locations)-1].Name)
}

func TestAddLeaderRejectsCaseInsensitiveDuplicate(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.AddLeader("Ana"))
	err := r.AddLeader("ana")
	require.ErrorIs(t, err, ErrDuplicate)

	count := 0
	for _, l := range r.Leaders() {
		if l == "Ana" || l == "ana" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestAddNameTrimsAndRejectsBlank(t *testing.T) {
	r := NewRegistry(nil)
	before := r.Groups()

	require.ErrorIs(t, r.AddGroup("   "), ErrEmptyName)
	require.Equal(t, before, r.Groups())

	require.NoError(t, r.AddGroup("  Grupo Sul  "))
	require.Contains(t, r.Groups(), "Grupo Sul")
}

func TestLeadersStaySorted(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.AddLeader("Ânderson"))
	require.NoError(t, r.AddLeader("Bruno"))

	leaders := r.Leaders()
	require.Equal(t, "Adriano Calmon", leaders[0])
	require.Equal(t, "Ânderson", leaders[1])
	require.Equal(t, "Atos", leaders[2])
	require.Equal(t, "Bruno", leaders[3])
}

func TestRemoveNames(t *testing.T) {
	r := NewRegistry(nil)

	require.True(t, r.RemoveLeader("Atos"))
	require.False(t, r.RemoveLeader("Atos"))
	require.NotContains(t, r.Leaders(), "Atos")

	require.True(t, r.RemoveGroup("Grupo Norte"))
	require.False(t, r.RemoveGroup("grupo litoral"))
}

func TestLocations(t *testing.T) {
	r := NewRegistry(nil)

	loc, err := r.AddLocation(" Praça Central ", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	require.NotEmpty(t, loc.ID)
	require.Equal(t, "Praça Central", loc.Name)

	url, ok := r.ImageFor("Praça Central")
	require.True(t, ok)
	require.Equal(t, "data:image/png;base64,AAAA", url)

	_, ok = r.ImageFor("praça central")
	require.False(t, ok)

	_, err = r.AddLocation("PRAÇA CENTRAL", "")
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = r.AddLocation("", "x")
	require.ErrorIs(t, err, ErrEmptyName)

	require.True(t, r.RemoveLocation(loc.ID))
	require.False(t, r.RemoveLocation(loc.ID))
	_, ok = r.ImageFor("Praça Central")
	require.False(t, ok)
}

func TestLocationOrder(t *testing.T) {
	alpha := NewRegistry(nil)
	_, err := alpha.AddLocation("Auditório", "")
	require.NoError(t, err)
	require.Equal(t, "Auditório", alpha.Locations()[0].Name)

	insertion := NewRegistry(nil, WithLocationOrder(OrderInsertion))
	_, err = insertion.AddLocation("Auditório", "")
	require.NoError(t, err)
	locations := insertion.Locations()
	require.Equal(t, "Auditório", locations[len(locations)-1].Name)
}

func TestParseLocationOrder(t *testing.T) {
	order, err := ParseLocationOrder("")
	require.NoError(t, err)
	require.Equal(t, OrderAlphabetical, order)

	order, err = ParseLocationOrder("Insertion")
	require.NoError(t, err)
	require.Equal(t, OrderInsertion, order)

	_, err = ParseLocationOrder("random")
	require.Error(t, err)
}

func TestRegistryPersistence(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	r := NewRegistry(mem)
	require.NoError(t, r.Load(ctx))
	require.NoError(t, r.AddLeader("Ana"))
	require.True(t, r.RemoveGroup("Grupo Norte"))

	reloaded := NewRegistry(mem)
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, r.Leaders(), reloaded.Leaders())
	require.Equal(t, r.Groups(), reloaded.Groups())
	// Never written, so still the built-in list.
	require.Equal(t, r.Locations(), reloaded.Locations())

	_, found, err := mem.Get(ctx, kv.KeyLocations)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRegistryLoadEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, kv.KeyGroups, []byte(`[]`)))

	r := NewRegistry(mem)
	require.NoError(t, r.Load(ctx))
	require.Empty(t, r.Groups())
	require.NotNil(t, r.Groups())
	require.NotEmpty(t, r.Leaders())
}
