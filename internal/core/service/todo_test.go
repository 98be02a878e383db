package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todos/internal/adapter/database/repository"
	"todos/internal/core/domain"
	"todos/internal/core/port"
	"todos/internal/core/service"
	. "todos/pkg/test"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service  *service.TodoService
	TodoRepo port.TodoRepository
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.TodoRepo = repository.NewTodoRepository(db, nil)
	s.Service = service.NewTodoService(s.TodoRepo, nil)
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) TestGetAllTodos_Empty() {
	todos, err := s.Service.GetAllTodos(context.Background())

	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestCreateTodo_AssignsID() {
	todo, err := s.Service.CreateTodo(context.Background(), domain.Todo{Title: "buy milk"})

	Expect(err).To(BeNil())
	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Title).To(Equal("buy milk"))
}

func (s *TodoServiceTestSuite) TestCreateThenListThenDelete() {
	ctx := context.Background()

	created, err := s.Service.CreateTodo(ctx, domain.Todo{Title: "read"})
	Expect(err).To(BeNil())

	todos, err := s.Service.GetAllTodos(ctx)
	Expect(err).To(BeNil())
	Expect(todos).To(ContainElement(created))

	Expect(s.Service.DeleteTodoByID(ctx, created.ID)).To(Succeed())

	todos, err = s.Service.GetAllTodos(ctx)
	Expect(err).To(BeNil())
	Expect(todos).NotTo(ContainElement(created))
}

func (s *TodoServiceTestSuite) TestGetTodoByID_Unknown() {
	todo, err := s.Service.GetTodoByID(context.Background(), 404)

	Expect(err).To(BeNil())
	Expect(todo).To(BeNil())
}

func (s *TodoServiceTestSuite) TestGetTodoByID_Found() {
	ctx := context.Background()

	created, _ := s.Service.CreateTodo(ctx, domain.Todo{Title: "found", Completed: true})

	todo, err := s.Service.GetTodoByID(ctx, created.ID)
	Expect(err).To(BeNil())
	Expect(*todo).To(Equal(created))
}

func (s *TodoServiceTestSuite) TestDeleteTodoByID_Unknown() {
	Expect(s.Service.DeleteTodoByID(context.Background(), 404)).To(Succeed())
}

type failingRepository struct {
	err error
}

func (r failingRepository) List(ctx context.Context) ([]domain.Todo, error) { return nil, r.err }
func (r failingRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	return nil, r.err
}
func (r failingRepository) Save(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	return domain.Todo{}, r.err
}
func (r failingRepository) DeleteByID(ctx context.Context, id int64) error { return r.err }

func TestTodoService_PropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("disk full")
	svc := service.NewTodoService(failingRepository{err: boom}, nil)
	ctx := context.Background()

	_, err := svc.GetAllTodos(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = svc.GetTodoByID(ctx, 1)
	assert.ErrorIs(t, err, boom)

	_, err = svc.CreateTodo(ctx, domain.Todo{Title: "x"})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, svc.DeleteTodoByID(ctx, 1), boom)
}
