package movie

// genreNames is the fixed TMDB movie genre map. The remote genre list
// endpoint returns the same data; this local copy lets list views resolve
// genre chips without an extra network call.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName resolves a genre ID to its display name. Unmapped IDs resolve
// to "Unknown".
func GenreName(id int) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return "Unknown"
}

// GenreNames resolves a list of genre IDs, preserving order.
func GenreNames(ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = GenreName(id)
	}
	return names
}
