package repository

import "errors"

// 対象が無いときは全repoこれを返す
var ErrNotFound = errors.New("not found")

// 一意制約違反（email重複など）
var ErrDuplicate = errors.New("duplicate")

// 条件付き更新で、読んだ後に行が変わっていた
var ErrConflict = errors.New("conflict")
