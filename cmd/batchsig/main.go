// batchsig 生成一批签名，在受限执行环境中逐个验证，并为执行结果生成零知识证明
package main

func main() {
	Execute()
}
