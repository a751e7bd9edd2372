package hrtalk

// Author is everything one user posted in the posts given to GroupByAuthor.
type Author struct {
	Url   string `json:"url"`
	Posts []Post `json:"posts"`
}

func (a Author) PostCount() int {
	return len(a.Posts)
}

// GroupByAuthor groups posts by AuthorUrl. Authors are ordered by their first
// post in the input and keep their posts in input order.
func GroupByAuthor(posts []Post) []Author {
	var authors []Author
	index := map[string]int{}
	for _, post := range posts {
		i, ok := index[post.AuthorUrl]
		if !ok {
			i = len(authors)
			index[post.AuthorUrl] = i
			authors = append(authors, Author{Url: post.AuthorUrl})
		}
		authors[i].Posts = append(authors[i].Posts, post)
	}
	return authors
}
