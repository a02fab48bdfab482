package configs

import (
	"strconv"

	"github.com/spf13/viper"
)

const (
	MinSemester = 1
	MaxSemester = 8
)

// Subject 学期内单个科目的静态描述.
type Subject struct {
	Code    string `mapstructure:"code"    json:"code"`
	Name    string `mapstructure:"name"    json:"name"`
	Modules int    `mapstructure:"modules" json:"modules"`
}

// SubjectsConfig 学期→科目静态目录.
// Strict 开启后，上传时的 subject 必须出现在对应学期的目录中；
// 默认关闭，保持接受任意科目代码的宽松行为.
type SubjectsConfig struct {
	Strict  bool                 `mapstructure:"strict"`
	Catalog map[string][]Subject `mapstructure:"catalog"`
}

// ForSemester 返回某学期的科目列表，未配置时回退到内置目录.
func (c *SubjectsConfig) ForSemester(semester int) []Subject {
	key := strconv.Itoa(semester)
	if c.Catalog != nil {
		if subs, ok := c.Catalog[key]; ok {
			return subs
		}
	}

	return defaultSubjectCatalog[key]
}

// Contains 判断科目代码是否属于某学期.
func (c *SubjectsConfig) Contains(semester int, code string) bool {
	for _, s := range c.ForSemester(semester) {
		if s.Code == code {
			return true
		}
	}

	return false
}

func (c *SubjectsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("subjects.strict", false)
}

// defaultSubjectCatalog 内置的 CS 课程目录（1-8 学期）.
var defaultSubjectCatalog = map[string][]Subject{
	"1": {
		{Code: "LAC", Name: "Linear Algebra and Calculus", Modules: 0},
		{Code: "CAG", Name: "Computer Aided Engineering and Drawing", Modules: 1},
		{Code: "COA", Name: "Computer Organisation and Architecture", Modules: 5},
		{Code: "EP", Name: "Engineering Physics", Modules: 5},
		{Code: "FAM", Name: "Fundamentals of Artificial Intelligence", Modules: 5},
		{Code: "PSC", Name: "Programming in C", Modules: 5},
		{Code: "PCN", Name: "English", Modules: 5},
		{Code: "IPR", Name: "Intellectual Property Rights", Modules: 5},
	},
	"2": {
		{Code: "CMT", Name: "Computational Mathematics", Modules: 5},
		{Code: "PIP", Name: "Programming in Python", Modules: 5},
		{Code: "BEEE", Name: "Basic Electronics Engineering", Modules: 5},
		{Code: "FDS", Name: "Data Science", Modules: 5},
		{Code: "FDT", Name: "Data Structures", Modules: 5},
		{Code: "KAN", Name: "Kannada Samskruthi", Modules: 5},
		{Code: "EVS", Name: "Environmental Studies", Modules: 5},
		{Code: "ICN", Name: "Indian Constitution", Modules: 0},
	},
	"3": {
		{Code: "PSM", Name: "Probability Theory and Statistics", Modules: 5},
		{Code: "OOP", Name: "Object Oriented Programming", Modules: 5},
		{Code: "OS", Name: "Operating System", Modules: 5},
		{Code: "WEB", Name: "Web Technology", Modules: 5},
		{Code: "SE", Name: "Software Engineering", Modules: 5},
		{Code: "CN", Name: "Computer Networks", Modules: 5},
		{Code: "IOT", Name: "Internet of Things", Modules: 5},
		{Code: "CLE", Name: "Cyber Law and Ethics", Modules: 5},
	},
	"4": {
		{Code: "PSM", Name: "Probability Theory and Statistics", Modules: 5},
		{Code: "OOP", Name: "Object Oriented Programming", Modules: 5},
		{Code: "OS", Name: "Operating System", Modules: 5},
		{Code: "DAA", Name: "Design and Analysis of Algorithms", Modules: 5},
		{Code: "DADV", Name: "Data Analysis and Data Visualization", Modules: 5},
		{Code: "CN", Name: "Computer Networks", Modules: 5},
		{Code: "DBMS", Name: "Database Management System", Modules: 5},
		{Code: "LSE", Name: "Life Skills for Engineers", Modules: 5},
	},
	"5": {
		{Code: "ML", Name: "Machine Learning", Modules: 5},
		{Code: "AI", Name: "Artificial Intelligence", Modules: 5},
		{Code: "DS", Name: "Data Science", Modules: 5},
		{Code: "CC", Name: "Cloud Computing", Modules: 5},
		{Code: "IOT", Name: "Internet of Things", Modules: 5},
		{Code: "BC", Name: "Block Chain Technology", Modules: 5},
	},
	"6": {
		{Code: "DL", Name: "Deep Learning", Modules: 5},
		{Code: "NLP", Name: "Natural Language Processing", Modules: 5},
		{Code: "CV", Name: "Computer Vision", Modules: 5},
		{Code: "BDA", Name: "Big Data Analytics", Modules: 5},
		{Code: "IS", Name: "Information Security", Modules: 5},
		{Code: "RL", Name: "Reinforcement Learning", Modules: 5},
	},
	"7": {
		{Code: "PROJECT", Name: "Major Project", Modules: 5},
		{Code: "SEMINAR", Name: "Technical Seminar", Modules: 5},
		{Code: "INTERN", Name: "Internship", Modules: 5},
		{Code: "ELEC1", Name: "Professional Elective-I", Modules: 5},
		{Code: "ELEC2", Name: "Professional Elective-II", Modules: 5},
	},
	"8": {
		{Code: "PROJECT2", Name: "Major Project-II", Modules: 5},
		{Code: "COMP", Name: "Comprehensive Exam", Modules: 5},
		{Code: "ELEC3", Name: "Professional Elective-III", Modules: 5},
		{Code: "ELEC4", Name: "Professional Elective-IV", Modules: 5},
		{Code: "ETHICS", Name: "Professional Ethics", Modules: 5},
	},
}
