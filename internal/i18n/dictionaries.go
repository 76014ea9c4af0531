package i18n

// Both arrays are declared with [...] so their length is the highest key
// used plus one; the assertions below stop the build if a trailing key is
// missing. Gaps in the middle are caught by TestDictionariesComplete.
var (
	_ = [1]struct{}{}[len(zh)-int(keyCount)]
	_ = [1]struct{}{}[len(en)-int(keyCount)]
)

var zh = [...]string{
	Title:           "密码生成器",
	Subtitle:        "快速生成安全、可定制的随机密码",
	Language:        "语言",
	Copy:            "复制",
	Copied:          "已复制",
	CopyFailed:      "复制失败，请手动复制。",
	Placeholder:     "点击生成密码",
	StrengthUnknown: "强度未知",
	StrengthWeak:    "弱",
	StrengthMedium:  "中",
	StrengthStrong:  "强",
	Length:          "密码长度",
	Charsets:        "字符集",
	Upper:           "大写字母",
	Lower:           "小写字母",
	Numbers:         "数字",
	Symbols:         "特殊符号",
	Exclude:         "排除易混字符 (0/O/1/l)",
	Advanced:        "高级选项",
	RequireAll:      "必须包含已选字符集",
	Pronounceable:   "生成易读模式 (CVCV)",
	TitleCase:       "首字母大写 + 末尾数字",
	Generate:        "生成密码",
	ClearHistory:    "清除历史",
	History:         "最近生成",
	TipsTitle:       "密码安全建议",
	TipLength:       "长度越长越安全，推荐 16 位以上。",
	TipUnique:       "不同网站使用不同密码，避免复用。",
	TipManager:      "配合密码管理器保存与自动填充。",
	Footer:          "密码仅在本地生成和暂存，不会上传服务器。",
}

var en = [...]string{
	Title:           "Password Generator",
	Subtitle:        "Create secure, customizable passwords instantly",
	Language:        "Language",
	Copy:            "Copy",
	Copied:          "Copied!",
	CopyFailed:      "Copy failed, please copy manually.",
	Placeholder:     "Click generate",
	StrengthUnknown: "Strength unknown",
	StrengthWeak:    "Weak",
	StrengthMedium:  "Medium",
	StrengthStrong:  "Strong",
	Length:          "Length",
	Charsets:        "Character sets",
	Upper:           "Uppercase letters",
	Lower:           "Lowercase letters",
	Numbers:         "Numbers",
	Symbols:         "Symbols",
	Exclude:         "Exclude similar characters (0/O/1/l)",
	Advanced:        "Advanced options",
	RequireAll:      "Require each selected charset",
	Pronounceable:   "Pronounceable mode (CVCV)",
	TitleCase:       "Title case + trailing number",
	Generate:        "Generate",
	ClearHistory:    "Clear history",
	History:         "Recent passwords",
	TipsTitle:       "Password hygiene tips",
	TipLength:       "Longer is safer; aim for 16+ characters.",
	TipUnique:       "Use different passwords per service.",
	TipManager:      "Store with a password manager.",
	Footer:          "Passwords are generated locally; nothing is uploaded.",
}
