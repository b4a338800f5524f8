package i18n

// Message keys for authoring API responses.
const (
	MsgPublished    = "published"
	MsgDraftSaved   = "draft_saved"
	MsgUpdated      = "updated"
	MsgDeleted      = "deleted"
	MsgUnauthorized = "unauthorized"
	MsgMissing      = "missing_fields"
	MsgMissingName  = "missing_file_name"
	MsgNotFound     = "not_found"
	MsgConflict     = "conflict"
	MsgFailed       = "failed"
	MsgTooMany      = "too_many_attempts"
	MsgBadPassword  = "bad_password"
)

var messages = map[Locale]map[string]string{
	English: {
		MsgPublished:    "Published to the bookshelf!",
		MsgDraftSaved:   "Draft tucked into the drawer",
		MsgUpdated:      "Post updated",
		MsgDeleted:      "Post deleted",
		MsgUnauthorized: "Unauthorized",
		MsgMissing:      "Title and content are required",
		MsgMissingName:  "A file name is required",
		MsgNotFound:     "Post not found",
		MsgConflict:     "A post with this name already exists, please change the title",
		MsgFailed:       "Something went wrong, please try again",
		MsgTooMany:      "Too many login attempts. Try again later.",
		MsgBadPassword:  "Wrong passphrase",
	},
	Chinese: {
		MsgPublished:    "文章已发布到书架！",
		MsgDraftSaved:   "草稿已收进抽屉",
		MsgUpdated:      "文章已更新",
		MsgDeleted:      "文章已删除",
		MsgUnauthorized: "未授权访问",
		MsgMissing:      "标题和内容不能为空",
		MsgMissingName:  "需要提供文件名",
		MsgNotFound:     "文章不存在",
		MsgConflict:     "同名文章已存在，请修改标题",
		MsgFailed:       "操作失败，请重试",
		MsgTooMany:      "尝试次数过多，请稍后再试",
		MsgBadPassword:  "暗号不对哦",
	},
}

// T returns the message for key in l, falling back to English and then to
// the key itself.
func T(l Locale, key string) string {
	if m, ok := messages[l][key]; ok {
		return m
	}
	if m, ok := messages[English][key]; ok {
		return m
	}
	return key
}
