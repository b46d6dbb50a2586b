package client

import "net/url"

const (
	PathLogin            = "/api/admin/login"
	PathLogout           = "/api/admin/logout"
	PathCheck            = "/api/admin/check"
	PathStats            = "/api/admin/stats"
	PathProjects         = "/api/projects"
	PathFeaturedProjects = "/api/projects/featured"
	PathBlogs            = "/api/blogs"
	PathAllBlogs         = "/api/blogs/all"
	PathMessages         = "/api/messages"
)

func projectPath(id string) string { return PathProjects + "/" + url.PathEscape(id) }

func blogPath(id string) string { return PathBlogs + "/" + url.PathEscape(id) }

func messagePath(id string) string { return PathMessages + "/" + url.PathEscape(id) }

// Invalidations lists the cached paths each kind of mutation makes stale.
// Login and logout are not listed: they drop the whole cache.
var Invalidations = struct {
	Project func(id string) []string
	Blog    func(id string) []string
	Message func() []string
}{
	Project: func(id string) []string {
		paths := []string{PathProjects, PathFeaturedProjects, PathStats}
		if id != "" {
			paths = append(paths, projectPath(id))
		}
		return paths
	},
	Blog: func(id string) []string {
		paths := []string{PathBlogs, PathAllBlogs, PathStats}
		if id != "" {
			paths = append(paths, blogPath(id))
		}
		return paths
	},
	Message: func() []string {
		return []string{PathMessages, PathStats}
	},
}
