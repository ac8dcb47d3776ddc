// DTOs for the list and lookup endpoints. Pointers mark fields the API may omit or send as null.

package githubapi

type OwnerResponse struct {
	Login       *string `json:"login"`
	ReposURL    *string `json:"repos_url"`
	HTMLURL     *string `json:"html_url"`
	Description *string `json:"description"`
}

type RepositoryResponse struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	HTMLURL         *string `json:"html_url"`
	ContentsURL     *string `json:"contents_url"`
	Language        *string `json:"language"`
	UpdatedAt       *string `json:"updated_at"`
	StargazersCount *int    `json:"stargazers_count"`
	ForksCount      *int    `json:"forks_count"`
	DefaultBranch   *string `json:"default_branch"`
}

type ReadmeResponse struct {
	HTMLURL     *string `json:"html_url"`
	DownloadURL *string `json:"download_url"`
	Size        *int64  `json:"size"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
