package extractor

// registryGlobal - имя глобальной переменной страницы, где probe оставляет
// живые ссылки на элементы. Номер в массиве и есть handle элемента.
const registryGlobal = "__pagePerceptionRegistry"

// probeScript обходит поддерево body в порядке документа и возвращает JSON-строку.
// Для каждого элемента снимается то, что знает только движок: прямоугольник,
// computed style, innerText и текущее value.
const probeScript = `() => {
	const body = document.body;
	const registry = [];
	const nodes = [];
	const out = {
		url: location.href,
		title: document.title,
		viewport: { width: window.innerWidth, height: window.innerHeight },
		nodes: nodes
	};
	window.` + registryGlobal + ` = registry;
	if (!body) {
		return JSON.stringify(out);
	}

	const controls = new Set(['input', 'textarea', 'select']);

	const element = (el, parent) => {
		const handle = registry.length;
		registry.push(el);
		const r = el.getBoundingClientRect();
		const s = window.getComputedStyle(el);
		const attrs = [];
		for (const a of el.attributes) {
			attrs.push([a.name, a.value]);
		}
		nodes.push({
			kind: 'element',
			handle: handle,
			parent: parent,
			tag: el.localName,
			ns: el.namespaceURI || '',
			attrs: attrs,
			rect: {
				x: r.x, y: r.y, width: r.width, height: r.height,
				top: r.top, right: r.right, bottom: r.bottom, left: r.left
			},
			style: { display: s.display, visibility: s.visibility, opacity: s.opacity },
			innerText: typeof el.innerText === 'string' ? el.innerText : '',
			value: typeof el.value === 'string' ? el.value : '',
			type: controls.has(el.localName) ? el.type : ''
		});
		return handle;
	};

	const walk = (node, parent) => {
		for (const child of node.childNodes) {
			if (child.nodeType === Node.TEXT_NODE) {
				nodes.push({ kind: 'text', handle: -1, parent: parent, data: child.data });
			} else if (child.nodeType === Node.ELEMENT_NODE) {
				walk(child, element(child, parent));
			}
		}
	};

	walk(body, element(body, -1));
	return JSON.stringify(out);
}`

// applyScript переносит журнал изменений на живую страницу.
// Возвращает handle-ы элементов, которые исчезли или отсоединились от документа.
const applyScript = `(journal) => {
	const registry = window.` + registryGlobal + ` || [];
	const missing = [];
	for (const m of JSON.parse(journal)) {
		if (m.op === 'remove-all') {
			document.querySelectorAll('[' + CSS.escape(m.name) + ']').forEach(el => el.removeAttribute(m.name));
			continue;
		}
		const el = registry[m.handle];
		if (!el || !el.isConnected) {
			missing.push(m.handle);
			continue;
		}
		el.setAttribute(m.name, m.value);
	}
	return missing;
}`

// releaseScript освобождает реестр, чтобы страница не держала ссылки на удаленные узлы.
const releaseScript = `() => { delete window.` + registryGlobal + `; }`
