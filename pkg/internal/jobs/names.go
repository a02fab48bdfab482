package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobOrphanSweepNightly = "catalog.orphan_sweep.nightly"
	JobCatalogStatsHourly = "catalog.stats.hourly"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronOrphanSweepNightly = "20 3 * * *"
	CronCatalogStatsHourly = "0 * * * *"
)

// 孤儿文件的宽限期：晚于该时长的未入库文件才会被回收，
// 避免误删正在上传、行尚未提交的文件.
const orphanGraceHours = 24
