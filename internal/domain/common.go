package domain

const (
	// DefaultPageSize кол-во объектов в выдаче поиска по умолчанию
	DefaultPageSize = 20
	// MaxPageSize максимальное кол-во объектов в выдаче поиска
	MaxPageSize = 200
)

// NormalizePageSize нормализует размер выдачи
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
