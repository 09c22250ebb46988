package person

import (
	"context"
	"fmt"
	"strings"
)

// Service は人物ディレクトリの参照ユースケースをまとめます。
type Service struct {
	dir Directory
}

// UseCase は人物ユースケースの公開インターフェースです。
type UseCase interface {
	GetPerson(ctx context.Context, id string) (*Person, error)
	ListPeople(ctx context.Context) ([]*Person, error)
	TeamOf(ctx context.Context, managerID string) ([]string, error)
}

// NewService は Service を生成します。
func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

// GetPerson は ID で人物を取得します。
func (s *Service) GetPerson(ctx context.Context, id string) (*Person, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.dir.FindByID(ctx, id)
}

// ListPeople はディレクトリ上の全人物を取得します。
func (s *Service) ListPeople(ctx context.Context) ([]*Person, error) {
	return s.dir.List(ctx)
}

// TeamOf は直属の部下の ID を返します。
func (s *Service) TeamOf(ctx context.Context, managerID string) ([]string, error) {
	if strings.TrimSpace(managerID) == "" {
		return nil, fmt.Errorf("manager id: %w", ErrInvalidID)
	}
	return s.dir.TeamOf(ctx, managerID)
}

// ValidateHierarchy は people 全体について上長参照の不変条件を検証します。
// 長さ 2 以上の循環は検出しません。
func ValidateHierarchy(people []*Person) error {
	byID := make(map[string]*Person, len(people))
	for _, p := range people {
		if err := p.Validate(); err != nil {
			return err
		}
		byID[p.ID] = p
	}
	for _, p := range people {
		if p.ManagerID == nil {
			continue
		}
		manager, ok := byID[*p.ManagerID]
		if !ok {
			return fmt.Errorf("person %s: %w", p.ID, ErrPersonNotFound)
		}
		if !manager.IsManager() {
			return fmt.Errorf("person %s: %w", p.ID, ErrManagerNotManager)
		}
	}
	return nil
}
