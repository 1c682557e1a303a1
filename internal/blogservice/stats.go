package blogservice

// TotalLikes sums the likes of blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}

	return total
}

// MostLiked returns the blog with the most likes. The earliest blog wins a
// tie. ok is false for an empty list.
func MostLiked(blogs []Blog) (fav Favorite, ok bool) {
	if len(blogs) == 0 {
		return Favorite{}, false
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}

	return Favorite{Title: best.Title, Author: best.Author, Likes: best.Likes}, true
}

func newStats(blogs []Blog) *Stats {
	stats := &Stats{TotalLikes: TotalLikes(blogs)}

	if fav, ok := MostLiked(blogs); ok {
		stats.MostLiked = &fav
	}

	return stats
}
