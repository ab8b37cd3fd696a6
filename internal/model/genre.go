package model

const DefaultGenre = "other"

type Genre struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Genres = []Genre{
	{"fiction", "Художественная литература"},
	{"non_fiction", "Нехудожественная литература"},
	{"science", "Научная литература"},
	{"fantasy", "Фэнтези"},
	{"mystery", "Детектив"},
	{"romance", "Роман"},
	{"biography", "Биография"},
	{"history", "История"},
	{"other", "Другое"},
}

var genreNames = func() map[string]string {
	m := make(map[string]string, len(Genres))
	for _, g := range Genres {
		m[g.Code] = g.Name
	}
	return m
}()

// IsGenre reports whether code is one of the known genre codes.
func IsGenre(code string) bool {
	_, ok := genreNames[code]
	return ok
}

// GenreName returns the display name for code, or code itself if unknown.
func GenreName(code string) string {
	if name, ok := genreNames[code]; ok {
		return name
	}
	return code
}
