package person

import "errors"

var (
	// ErrPersonNotFound は人物が存在しない場合に返却されます。
	ErrPersonNotFound = errors.New("person: not found")
	// ErrInvalidID はIDが不正な場合に返却されます。
	ErrInvalidID = errors.New("person: invalid id")
	// ErrInvalidRole は役割が不正な場合に返却されます。
	ErrInvalidRole = errors.New("person: invalid role")
	// ErrSelfManaged は自分自身を上長に指定した場合に返却されます。
	ErrSelfManaged = errors.New("person: manager id refers to self")
	// ErrEmailAlreadyExists はメールアドレスが重複した場合に返却されます。
	ErrEmailAlreadyExists = errors.New("person: email already exists")
	// ErrManagerNotManager は上長がマネージャー以外の場合に返却されます。
	ErrManagerNotManager = errors.New("person: manager id does not reference a manager")
)
