// Package main 启动应用程序
package main

import "github.com/yeisme/coursevault/pkg/cmd"

//	@title			coursevault API
//	@version		1.0
//	@description	coursevault 是一个课程资料共享目录服务，提供资料上传、按学期/学科检索和文件下载等功能。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@BasePath	/api

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
