package productservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/messaging"
	"gocatalog/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface domain.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher é uma implementação mock da interface messaging.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

// newTestService monta o serviço com repo/publisher mockados e um cache em
// memória real, para exercitar a estratégia cache-aside de verdade.
func newTestService() (*productservice.Service, *MockProductRepository, *MockPublisher) {
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	svc := productservice.NewService(mockRepo, cache.NewMemoryClient(), mockPub, logger.NewLogger("error"))
	return svc, mockRepo, mockPub
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.99"), Category: "Tools", StockQuantity: 3},
		{ID: 2, Name: "Gadget", Price: decimal.NewFromInt(20), Category: "Gadgets", StockQuantity: 50},
	}
}

// TestGetAllProducts_CacheIdempotence verifica que a segunda chamada sem
// mutação intermediária é servida do cache: o repositório é invocado uma única vez.
func TestGetAllProducts_CacheIdempotence(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	mockRepo.On("GetAll", mock.Anything).Return(sampleProducts(), nil).Once()

	first, err := svc.GetAllProducts(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.GetAllProducts(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertNumberOfCalls(t, "GetAll", 1)
}

// TestGetProductByID_CacheInvalidationOnUpdate verifica que uma atualização
// invalida a entrada por ID: a leitura seguinte volta ao repositório e
// reflete o novo estado (sem hit obsoleto).
func TestGetProductByID_CacheInvalidationOnUpdate(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	original := sampleProducts()[0]
	updated := original
	assert.NoError(t, updated.ApplyUpdate("Widget Pro", decimal.NewFromInt(15), "Tools"))

	// 1. Primeira leitura popula o cache.
	mockRepo.On("GetByID", mock.Anything, 1).Return(original, nil).Once()
	got, err := svc.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	// 2. Leitura repetida é servida do cache (sem nova chamada ao repo).
	got, err = svc.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	mockRepo.AssertNumberOfCalls(t, "GetByID", 1)

	// 3. Atualização (lê o estado atual, persiste e invalida o cache).
	mockRepo.On("GetByID", mock.Anything, 1).Return(original, nil).Once()
	mockRepo.On("Update", mock.Anything, updated).Return(nil).Once()
	err = svc.UpdateProduct(ctx, 1, "Widget Pro", decimal.NewFromInt(15), "Tools")
	assert.NoError(t, err)

	// 4. A leitura seguinte não pode servir o snapshot antigo.
	mockRepo.On("GetByID", mock.Anything, 1).Return(updated, nil).Once()
	got, err = svc.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Widget Pro", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(15)))

	mockRepo.AssertExpectations(t)
}

// TestGetProductsByCategory cobre o filtro case-insensitive e a validação de categoria vazia.
func TestGetProductsByCategory(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	mockRepo.On("GetAll", mock.Anything).Return(sampleProducts(), nil).Once()

	products, err := svc.GetProductsByCategory(ctx, "TOOLS")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	// Categoria em caixa diferente compartilha a mesma chave de cache.
	products, err = svc.GetProductsByCategory(ctx, "tools")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertNumberOfCalls(t, "GetAll", 1)

	// Categoria vazia falha antes de tocar cache ou repositório.
	_, err = svc.GetProductsByCategory(ctx, "   ")
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestGetProductsByCategory_PaddedInput verifica que espaços nas bordas não
// alteram o filtro nem contaminam a entrada de cache da forma canônica: a
// consulta com espaços e a canônica compartilham a mesma chave e o mesmo
// resultado.
func TestGetProductsByCategory_PaddedInput(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	mockRepo.On("GetAll", mock.Anything).Return(sampleProducts(), nil).Once()

	products, err := svc.GetProductsByCategory(ctx, "  tools  ")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	// A forma canônica lê o mesmo snapshot (não vazio) do cache.
	products, err = svc.GetProductsByCategory(ctx, "tools")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	mockRepo.AssertNumberOfCalls(t, "GetAll", 1)
}

// TestGetLowStockProducts cobre o filtro inclusivo e a validação de limiar negativo.
func TestGetLowStockProducts(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	mockRepo.On("GetAll", mock.Anything).Return(sampleProducts(), nil).Once()

	products, err := svc.GetLowStockProducts(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)

	_, err = svc.GetLowStockProducts(ctx, -1)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNumberOfCalls(t, "GetAll", 1)
}

// TestCreateProduct_PublishesAndPersists verifica a publicação best-effort e a persistência.
func TestCreateProduct_PublishesAndPersists(t *testing.T) {
	svc, mockRepo, mockPub := newTestService()
	ctx := context.Background()

	created := domain.Product{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.99"), Category: "Tools", StockQuantity: 3}

	mockPub.On("Publish", mock.Anything, messaging.ProductsTopic, mock.Anything).Return(nil).Once()
	mockRepo.On("Add", mock.Anything, mock.Anything).Return(created, nil).Once()

	got, err := svc.CreateProduct(ctx, "Widget", decimal.RequireFromString("9.99"), "Tools", 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, "Widget", got.Name)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

// TestCreateProduct_PublishFailureDoesNotBlock verifica que falha de
// publicação não afeta o resultado de negócio (fire-and-forget).
func TestCreateProduct_PublishFailureDoesNotBlock(t *testing.T) {
	svc, mockRepo, mockPub := newTestService()
	ctx := context.Background()

	created := domain.Product{ID: 1, Name: "Widget", Price: decimal.NewFromInt(10), Category: "Tools"}

	mockPub.On("Publish", mock.Anything, messaging.ProductsTopic, mock.Anything).Return(messaging.ErrQueueFull).Once()
	mockRepo.On("Add", mock.Anything, mock.Anything).Return(created, nil).Once()

	got, err := svc.CreateProduct(ctx, "Widget", decimal.NewFromInt(10), "Tools", 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.ID)
}

// TestCreateProduct_Fail_Validation verifica que entrada inválida não chega
// ao repositório nem ao broker.
func TestCreateProduct_Fail_Validation(t *testing.T) {
	svc, mockRepo, mockPub := newTestService()

	_, err := svc.CreateProduct(context.Background(), "Widget", decimal.NewFromInt(10001), "Tools", 0)
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)

	mockRepo.AssertNotCalled(t, "Add")
	mockPub.AssertNotCalled(t, "Publish")
}

// TestUpdateProduct_NotFound propaga o NotFound do repositório.
func TestUpdateProduct_NotFound(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	mockRepo.On("GetByID", mock.Anything, 9999).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto com ID 9999 não foi encontrado.")).Once()

	err := svc.UpdateProduct(context.Background(), 9999, "Widget", decimal.NewFromInt(10), "Tools")
	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "Update")
}

// TestUpdateProduct_Fail_InvalidTuple aborta antes de persistir quando algum
// campo da tupla é inválido.
func TestUpdateProduct_Fail_InvalidTuple(t *testing.T) {
	svc, mockRepo, _ := newTestService()

	mockRepo.On("GetByID", mock.Anything, 1).Return(sampleProducts()[0], nil).Once()

	err := svc.UpdateProduct(context.Background(), 1, "Widget Pro", decimal.NewFromInt(-1), "Tools")
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update")
}

// TestDeleteProduct cobre a remoção (inclusive com estoque positivo, que só gera aviso).
func TestDeleteProduct(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	withStock := sampleProducts()[0] // estoque 3 > 0: remoção permitida com aviso
	mockRepo.On("GetByID", mock.Anything, 1).Return(withStock, nil).Once()
	mockRepo.On("Delete", mock.Anything, 1).Return(nil).Once()

	assert.NoError(t, svc.DeleteProduct(ctx, 1))

	mockRepo.On("GetByID", mock.Anything, 9999).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto com ID 9999 não foi encontrado.")).Once()
	err := svc.DeleteProduct(ctx, 9999)
	assert.IsType(t, &apperror.NotFoundError{}, err)

	mockRepo.AssertExpectations(t)
}

// TestCalculateProductDiscount delega a aritmética à Entidade e propaga NotFound.
func TestCalculateProductDiscount(t *testing.T) {
	svc, mockRepo, _ := newTestService()
	ctx := context.Background()

	product := domain.Product{ID: 1, Name: "Widget", Price: decimal.NewFromInt(100), Category: "Tools"}
	mockRepo.On("GetByID", mock.Anything, 1).Return(product, nil).Once()

	discounted, err := svc.CalculateProductDiscount(ctx, 1, decimal.NewFromInt(20))
	assert.NoError(t, err)
	assert.True(t, discounted.Equal(decimal.NewFromInt(80)))

	mockRepo.On("GetByID", mock.Anything, 9999).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto com ID 9999 não foi encontrado.")).Once()
	_, err = svc.CalculateProductDiscount(ctx, 9999, decimal.NewFromInt(20))
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
