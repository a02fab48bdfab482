package queue

// 主题命名规范：cv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：content(目录条目)、file(文件存储)、maintenance(后台维护)
// 动作/状态：uploaded/deleted/accessed/swept 等过去式表示已发生的事实

const (
	// 目录条目领域.
	TopicContentUploaded = "cv.content.uploaded" // 文件写入存储且元数据入库后发布
	TopicContentDeleted  = "cv.content.deleted"  // 目录行删除后发布（文件删除结果随负载携带）
	TopicContentAccessed = "cv.content.accessed" // 文件被下载（用于热点统计）

	// 后台维护领域.
	TopicOrphanSwept = "cv.maintenance.orphan.swept" // 孤儿文件清理完成
)

// 主题分组，用于批量操作或权限控制.
var (
	// 目录条目相关主题集合.
	ContentTopics = []string{
		TopicContentUploaded, TopicContentDeleted, TopicContentAccessed,
	}

	// 后台维护相关主题集合.
	MaintenanceTopics = []string{
		TopicOrphanSwept,
	}
)
