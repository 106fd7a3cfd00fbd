package tree

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/pders01/git-pages/internal/models"
	"github.com/zeebo/xxh3"
)

// indentUnit is the tailwind padding step per depth level
const indentUnit = 4

// ToggleScript wires every folder header to its own nested container. Each
// header keeps its expanded flag in data-expanded; toggling one folder never
// touches another folder's container.
const ToggleScript = `document.querySelectorAll('.folder').forEach(folder => {
  folder.addEventListener('click', (e) => {
    e.stopPropagation();
    const expanded = folder.dataset.expanded !== 'true';
    folder.dataset.expanded = String(expanded);
    const icon = folder.querySelector('[data-lucide]');
    if (icon) {
      icon.setAttribute('data-lucide', expanded ? 'folder-open' : 'folder');
      lucide.createIcons();
    }
    const nested = document.getElementById(folder.dataset.target);
    if (nested) {
      nested.style.display = expanded ? 'block' : 'none';
    }
  });
});`

// FolderID returns the DOM id of the container holding a folder's children
func FolderID(folderPath string) string {
	return fmt.Sprintf("folder-%016x", xxh3.HashString(folderPath))
}

// Href returns the link target of the page for a file path
func Href(p string) string {
	segments := strings.Split(models.PagePath(p), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// Render serializes the tree as nested lists. Children are emitted in the
// order the builder produced them; every folder starts collapsed.
func Render(root *Folder) string {
	var b strings.Builder
	writeList(&b, `class="space-y-1"`, root.Children)
	return b.String()
}

// RenderFlat emits one entry per leaf, labeled with its full path, without
// any folder grouping.
func RenderFlat(root *Folder) string {
	var b strings.Builder
	b.WriteString(`<ul class="divide-y divide-gray-200">`)
	leaves := Leaves(root)
	for _, leaf := range leaves {
		fmt.Fprintf(&b, "\n<li>\n"+
			`<a href="%s" class="flex items-center px-4 py-3 hover:bg-gray-50 transition-colors duration-150">`+"\n"+
			`<i data-lucide="%s" class="mr-3 text-gray-500"></i>`+"\n"+
			`<span class="text-blue-600 hover:underline">%s</span>`+"\n"+
			"</a>\n</li>",
			html.EscapeString(Href(leaf.FullPath)), leaf.Category.Icon(), html.EscapeString(leaf.FullPath))
	}
	if len(leaves) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("</ul>")
	return b.String()
}

func writeList(b *strings.Builder, attrs string, children []Node) {
	b.WriteString("<ul " + attrs + ">")
	for _, child := range children {
		b.WriteByte('\n')
		switch n := child.(type) {
		case *Folder:
			writeFolder(b, n)
		case *Leaf:
			writeLeaf(b, n)
		}
	}
	if len(children) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("</ul>")
}

func writeFolder(b *strings.Builder, f *Folder) {
	id := FolderID(f.Path)
	b.WriteString("<li>\n")
	fmt.Fprintf(b, `<div class="folder flex items-center cursor-pointer text-gray-700 hover:text-blue-600 pl-%d" data-folder="%s" data-target="%s" data-expanded="false">`+"\n",
		f.Depth*indentUnit, html.EscapeString(f.Path), id)
	b.WriteString(`<i data-lucide="folder" class="mr-2 w-4 h-4"></i>` + "\n")
	fmt.Fprintf(b, "<span>%s</span>\n</div>\n", html.EscapeString(f.Name))
	writeList(b, fmt.Sprintf(`class="nested" id="%s" style="display: none;"`, id), f.Children)
	b.WriteString("\n</li>")
}

func writeLeaf(b *strings.Builder, l *Leaf) {
	fmt.Fprintf(b, `<li class="pl-%d">`+"\n", l.Depth*indentUnit)
	fmt.Fprintf(b, `<a href="%s" class="flex items-center text-gray-700 hover:text-blue-600">`+"\n", html.EscapeString(Href(l.FullPath)))
	fmt.Fprintf(b, `<i data-lucide="%s" class="mr-2 w-4 h-4"></i>`+"\n", l.Category.Icon())
	fmt.Fprintf(b, "<span>%s</span>\n</a>\n</li>", html.EscapeString(l.Name))
}
