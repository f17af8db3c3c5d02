package cards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

type mockCardRepo struct {
	cards  map[int64]*Card
	nextID int64
}

func newMockCardRepo() *mockCardRepo {
	return &mockCardRepo{cards: make(map[int64]*Card), nextID: 1}
}

func (m *mockCardRepo) Find(ctx context.Context, id int64) (*Card, error) {
	if c, ok := m.cards[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, shared.NewNotFound("Card not found")
}

func (m *mockCardRepo) ListByOwner(ctx context.Context, ownerID int64) ([]Card, error) {
	var out []Card
	for _, c := range m.cards {
		if c.UserID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCardRepo) Save(ctx context.Context, card *Card) error {
	if card.ID == 0 {
		card.ID = m.nextID
		m.nextID++
	}
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *mockCardRepo) Delete(ctx context.Context, id int64) error {
	delete(m.cards, id)
	return nil
}

func TestUpdateOrCreateFillsCardFields(t *testing.T) {
	svc := NewService(newMockCardRepo(), nil, nil)

	card, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{
		"name":             "Ada Okafor",
		"card_number":      "4111111111111111",
		"expiration_month": "11",
		"expiration_year":  "2030",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Okafor", card.Name)
	assert.Equal(t, "4111111111111111", card.CardNumber)
	assert.Equal(t, 11, card.ExpirationMonth)
	assert.Equal(t, 2030, card.ExpirationYear)
}

func TestSaveEstablishesOwnershipOnInsert(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewService(repo, nil, nil)

	card, err := svc.UpdateOrCreate(context.Background(), nil, record.Values{"name": "Ada"})
	require.NoError(t, err)
	card, err = svc.Save(context.Background(), card, 7)
	require.NoError(t, err)

	assert.NotZero(t, card.ID)
	assert.Equal(t, int64(7), card.UserID)
}

func TestSaveKeepsOwnerOnUpdate(t *testing.T) {
	repo := newMockCardRepo()
	require.NoError(t, repo.Save(context.Background(), &Card{UserID: 7, Name: "Ada"}))
	svc := NewService(repo, nil, nil)

	card, err := svc.Find(context.Background(), 1, 7)
	require.NoError(t, err)
	card, err = svc.UpdateOrCreate(context.Background(), card, record.Values{"name": "Ada O."})
	require.NoError(t, err)
	card, err = svc.Save(context.Background(), card, 99)
	require.NoError(t, err)

	assert.Equal(t, int64(7), card.UserID, "owner never changes on update")
	assert.Equal(t, "Ada O.", card.Name)
}

func TestFindRefusesForeignCard(t *testing.T) {
	repo := newMockCardRepo()
	require.NoError(t, repo.Save(context.Background(), &Card{UserID: 7, Name: "Ada"}))
	svc := NewService(repo, nil, nil)

	_, err := svc.Find(context.Background(), 1, 8)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteChecksOwnership(t *testing.T) {
	repo := newMockCardRepo()
	require.NoError(t, repo.Save(context.Background(), &Card{UserID: 7, Name: "Ada"}))
	svc := NewService(repo, nil, nil)

	err := svc.Delete(context.Background(), 1, 8)
	require.Error(t, err)
	_, stillThere := repo.cards[1]
	assert.True(t, stillThere)

	require.NoError(t, svc.Delete(context.Background(), 1, 7))
	_, stillThere = repo.cards[1]
	assert.False(t, stillThere)
}

func TestUpdateRetainsAbsentFields(t *testing.T) {
	svc := NewService(newMockCardRepo(), nil, nil)
	existing := &Card{ID: 3, UserID: 7, Name: "Ada", CardNumber: "4111111111111111", ExpirationMonth: 11, ExpirationYear: 2030}

	card, err := svc.UpdateOrCreate(context.Background(), existing, record.Values{"expiration_year": 2031})
	require.NoError(t, err)

	assert.Equal(t, "Ada", card.Name)
	assert.Equal(t, "4111111111111111", card.CardNumber)
	assert.Equal(t, 11, card.ExpirationMonth)
	assert.Equal(t, 2031, card.ExpirationYear)
}
