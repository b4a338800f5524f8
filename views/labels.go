package views

import "github.com/eringen/littlehouse/i18n"

var labels = map[i18n.Locale]map[string]string{
	i18n.English: {
		"home":        "Home",
		"blog":        "Blog",
		"categories":  "Categories",
		"tags":        "Tags",
		"about":       "About",
		"study":       "Study",
		"latest":      "Latest posts",
		"all_posts":   "All posts",
		"read_more":   "Read more",
		"related":     "Related posts",
		"no_posts":    "Nothing on the bookshelf yet.",
		"posts":       "posts",
		"not_found":   "This page wandered off.",
		"server_err":  "Something broke in the little house. Please try again later.",
		"back_home":   "Back home",
		"login_title": "Knock knock",
		"passphrase":  "Passphrase",
		"enter":       "Enter",
		"bad_pass":    "Wrong passphrase",
		"desk":        "Writing desk",
		"new_post":    "New post",
		"title":       "Title",
		"excerpt":     "Excerpt",
		"category":    "Category",
		"tags_hint":   "Tags (comma separated)",
		"cover":       "Cover image URL",
		"content":     "Content (markdown)",
		"publish":     "Publish now",
		"save":        "Save",
		"delete":      "Delete",
		"edit":        "Edit",
		"draft":       "Draft",
		"images":      "Images",
		"upload":      "Upload",
		"logout":      "Sign out",
		"about_body":  "A small house on the internet where I keep notes on what I read, build and think about.",
		"by":          "by",
	},
	i18n.Chinese: {
		"home":        "首页",
		"blog":        "博客",
		"categories":  "分类",
		"tags":        "标签",
		"about":       "关于",
		"study":       "书房",
		"latest":      "最新文章",
		"all_posts":   "全部文章",
		"read_more":   "继续阅读",
		"related":     "相关文章",
		"no_posts":    "书架上还空空的。",
		"posts":       "篇",
		"not_found":   "这个页面走丢了。",
		"server_err":  "小屋出了点问题，请稍后再试。",
		"back_home":   "回到首页",
		"login_title": "敲敲门",
		"passphrase":  "暗号",
		"enter":       "进入",
		"bad_pass":    "暗号不对哦",
		"desk":        "书桌",
		"new_post":    "写新文章",
		"title":       "标题",
		"excerpt":     "摘要",
		"category":    "分类",
		"tags_hint":   "标签（用逗号分隔）",
		"cover":       "封面图片地址",
		"content":     "正文（Markdown）",
		"publish":     "立即发布",
		"save":        "保存",
		"delete":      "删除",
		"edit":        "编辑",
		"draft":       "草稿",
		"images":      "图片",
		"upload":      "上传",
		"logout":      "退出",
		"about_body":  "这是我在互联网上的一间小屋，记录读过的书、做过的东西和想过的事。",
		"by":          "作者",
	},
}

// label returns the UI string for key in l, falling back to English.
func label(l i18n.Locale, key string) string {
	if s, ok := labels[l][key]; ok {
		return s
	}
	return labels[i18n.English][key]
}
