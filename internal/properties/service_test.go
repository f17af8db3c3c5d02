package properties

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

type mockPropertyRepo struct {
	properties map[int64]*Property
	nextID     int64
}

func newMockPropertyRepo() *mockPropertyRepo {
	return &mockPropertyRepo{properties: make(map[int64]*Property), nextID: 1}
}

func (m *mockPropertyRepo) Find(ctx context.Context, id int64) (*Property, error) {
	if p, ok := m.properties[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.NewNotFound("Property not found")
}

func (m *mockPropertyRepo) FindBySlug(ctx context.Context, slug string) (*Property, error) {
	for _, p := range m.properties {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.NewNotFound("Property not found")
}

func (m *mockPropertyRepo) List(ctx context.Context) ([]Property, error) {
	var out []Property
	for _, p := range m.properties {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPropertyRepo) ListByOwner(ctx context.Context, ownerID int64) ([]Property, error) {
	var out []Property
	for _, p := range m.properties {
		if p.UserID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPropertyRepo) Save(ctx context.Context, p *Property) error {
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	copied := *p
	m.properties[p.ID] = &copied
	return nil
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id int64) error {
	delete(m.properties, id)
	return nil
}

type mockAuthz struct {
	granted map[string]bool
}

func (m *mockAuthz) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	return m.granted[permission], nil
}

type mockGalleryStore struct {
	stored  []string
	deleted []string
}

func (m *mockGalleryStore) Put(ctx context.Context, bucket string, up storage.Upload) (string, error) {
	path := bucket + "/" + up.Filename
	m.stored = append(m.stored, path)
	return path, nil
}

func (m *mockGalleryStore) URL(path string) string { return "/storage/" + path }

func (m *mockGalleryStore) Delete(ctx context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	return nil
}

func (m *mockGalleryStore) Exists(ctx context.Context, path string) (bool, error) { return true, nil }

func (m *mockGalleryStore) List(ctx context.Context, bucket string) ([]string, error) {
	return nil, nil
}

type mockAuditor struct {
	entries []shared.AuditLog
}

func (m *mockAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	m.entries = append(m.entries, log)
	return nil
}

func newTestService(repo Repository, authz Authorizer, blobs storage.Store) *Service {
	svc := NewService(repo, authz, blobs, &mockAuditor{}, nil)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func allPermissions() *mockAuthz {
	return &mockAuthz{granted: map[string]bool{
		shared.PermPropertyCreate: true,
		shared.PermPropertyUpdate: true,
		shared.PermPropertyDelete: true,
	}}
}

func TestUpdateOrCreateResolvesEnums(t *testing.T) {
	svc := newTestService(newMockPropertyRepo(), allPermissions(), &mockGalleryStore{})

	property, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{
		"title":          "Cozy Lakeside Cottage",
		"price":          "250000",
		"bedrooms":       "3",
		"type":           "house",
		"status":         "for_sale",
		"other_features": `["garden","garage"]`,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Cozy Lakeside Cottage", property.Title)
	assert.Equal(t, 250000.0, property.Price)
	assert.Equal(t, 3, property.Bedrooms)
	assert.Equal(t, TypeHouse, property.Type)
	assert.Equal(t, StatusForSale, property.Status)
	assert.Equal(t, []int{FeatureGarden, FeatureGarage}, property.OtherFeatures)
}

func TestUpdateOrCreateRejectsUnknownEnum(t *testing.T) {
	svc := newTestService(newMockPropertyRepo(), allPermissions(), &mockGalleryStore{})

	_, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{
		"title": "Somewhere",
		"type":  "castle",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The property type identifier 'castle' does not exist.")
}

func TestGalleryReplacementDeletesPreviousBlobs(t *testing.T) {
	blobs := &mockGalleryStore{}
	svc := newTestService(newMockPropertyRepo(), allPermissions(), blobs)
	existing := &Property{ID: 1, UserID: 7, Gallery: []string{"property_gallery/a.jpg", "property_gallery/b.jpg"}}

	uploads := []storage.Upload{
		{Filename: "c.jpg", Content: strings.NewReader("img")},
		{Filename: "d.jpg", Content: strings.NewReader("img")},
	}
	property, err := svc.UpdateOrCreate(context.Background(), existing, record.Values{}, uploads)
	require.NoError(t, err)

	assert.Equal(t, []string{"property_gallery/c.jpg", "property_gallery/d.jpg"}, property.Gallery)
	assert.Equal(t, []string{"property_gallery/a.jpg", "property_gallery/b.jpg"}, blobs.deleted)
}

func TestSaveCreateRequiresPermissionAndAssignsSlug(t *testing.T) {
	repo := newMockPropertyRepo()
	svc := newTestService(repo, allPermissions(), &mockGalleryStore{})

	property, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{"title": "Cozy Lakeside Cottage"}, nil)
	require.NoError(t, err)
	property, err = svc.Save(context.Background(), property, 7)
	require.NoError(t, err)

	assert.NotZero(t, property.ID)
	assert.Equal(t, int64(7), property.UserID)
	assert.Equal(t, "cozy-lakeside-c1700000000", property.Slug)
}

func TestSaveCreateDeniedWithoutPermission(t *testing.T) {
	repo := newMockPropertyRepo()
	svc := newTestService(repo, &mockAuthz{granted: map[string]bool{}}, &mockGalleryStore{})

	property, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{"title": "Nope"}, nil)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), property, 7)

	require.Error(t, err)
	assert.Equal(t, "This user can't create a property", err.Error())
	assert.Empty(t, repo.properties, "nothing persisted on denial")
}

func TestSaveUpdateDeniedWithoutPermissionLeavesStoreUnchanged(t *testing.T) {
	repo := newMockPropertyRepo()
	require.NoError(t, repo.Save(context.Background(), &Property{UserID: 7, Title: "Original", Slug: "original123"}))
	svc := newTestService(repo, &mockAuthz{granted: map[string]bool{shared.PermPropertyCreate: true}}, &mockGalleryStore{})

	subject, err := svc.Find(context.Background(), 1)
	require.NoError(t, err)
	subject, err = svc.UpdateOrCreate(context.Background(), subject, record.Values{"title": "Hijacked"}, nil)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), subject, 7)

	require.Error(t, err)
	assert.Equal(t, "This user can't update a property", err.Error())
	stored, err := repo.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
}

func TestSaveUpdateKeepsSlug(t *testing.T) {
	repo := newMockPropertyRepo()
	require.NoError(t, repo.Save(context.Background(), &Property{UserID: 7, Title: "Original", Slug: "original123"}))
	svc := newTestService(repo, allPermissions(), &mockGalleryStore{})

	subject, err := svc.Find(context.Background(), 1)
	require.NoError(t, err)
	subject, err = svc.UpdateOrCreate(context.Background(), subject, record.Values{"title": "Renamed"}, nil)
	require.NoError(t, err)
	subject, err = svc.Save(context.Background(), subject, 7)
	require.NoError(t, err)

	assert.Equal(t, "original123", subject.Slug)
	assert.Equal(t, "Renamed", subject.Title)
}

func TestDeleteRequiresOwnershipAndPermission(t *testing.T) {
	repo := newMockPropertyRepo()
	require.NoError(t, repo.Save(context.Background(), &Property{
		UserID: 7, Title: "Mine", Slug: "mine123",
		Gallery: []string{"property_gallery/a.jpg"},
	}))
	blobs := &mockGalleryStore{}
	svc := newTestService(repo, allPermissions(), blobs)

	err := svc.Delete(context.Background(), "mine123", 8)
	require.Error(t, err)
	assert.Len(t, repo.properties, 1)

	require.NoError(t, svc.Delete(context.Background(), "mine123", 7))
	assert.Empty(t, repo.properties)
	assert.Equal(t, []string{"property_gallery/a.jpg"}, blobs.deleted)
}

func TestSaveAndDeleteLeaveAuditTrail(t *testing.T) {
	repo := newMockPropertyRepo()
	svc := newTestService(repo, allPermissions(), &mockGalleryStore{})
	auditor := svc.audit.(*mockAuditor)

	property, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{"title": "Tracked"}, nil)
	require.NoError(t, err)
	property, err = svc.Save(context.Background(), property, 7)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), property.Slug, 7))

	require.Len(t, auditor.entries, 2)
	assert.Equal(t, "property.created", auditor.entries[0].Action)
	assert.Equal(t, "property.deleted", auditor.entries[1].Action)
	assert.Equal(t, int64(7), auditor.entries[0].ActorID)
	assert.Equal(t, "property", auditor.entries[0].Entity)
}

func TestFindBySlugMissing(t *testing.T) {
	svc := newTestService(newMockPropertyRepo(), allPermissions(), &mockGalleryStore{})
	_, err := svc.FindBySlug(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
