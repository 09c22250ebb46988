package person

import "context"

// Directory は人物情報の読み取り専用ストアです。
type Directory interface {
	FindByID(ctx context.Context, id string) (*Person, error)
	// TeamOf は managerID を直属の上長に持つ人物の ID を返します。推移的には辿りません。
	TeamOf(ctx context.Context, managerID string) ([]string, error)
	List(ctx context.Context) ([]*Person, error)
}
